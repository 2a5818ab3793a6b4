package convert

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type tarEntry struct {
	name string
	body []byte
	dir  bool
}

func tarBytes(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, entry := range entries {
		hdr := &tar.Header{
			Name: entry.name,
			Mode: 0644,
		}
		if entry.dir {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0755
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(entry.body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !entry.dir {
			_, err := tw.Write(entry.body)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func writeTarFile(t *testing.T, path string, entries []tarEntry) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, tarBytes(t, entries), 0644))
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func writeManifest(t *testing.T, tree string, entries []ImageManifest) {
	t.Helper()
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(tree, "manifest.json"), data, 0644))
}

// makeImageTar 生成docker导出布局的镜像tar包：
// 一个子目录层加manifest.json，层内在约定路径放置制品
func makeImageTar(t *testing.T, path, repoTag string, artifact []byte) {
	t.Helper()
	layer := tarBytes(t, []tarEntry{
		{name: "opt/", dir: true},
		{name: "opt/app/", dir: true},
		{name: "opt/app/app.jar", body: artifact},
	})
	var repoTags []string
	if repoTag != "" {
		repoTags = []string{repoTag}
	}
	manifest, err := json.Marshal([]ImageManifest{
		{Config: "config.json", Layers: []string{"lay1/layer.tar"}, RepoTags: repoTags},
	})
	require.NoError(t, err)
	writeTarFile(t, path, []tarEntry{
		{name: "lay1/", dir: true},
		{name: "lay1/layer.tar", body: layer},
		{name: "manifest.json", body: manifest},
	})
}
