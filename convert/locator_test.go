package convert

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateArtifactInSubdirLayer(t *testing.T) {
	tree := t.TempDir()
	scratch := t.TempDir()
	writeTarFile(t, filepath.Join(tree, "lay1", "layer.tar"), []tarEntry{
		{name: "etc/hostname", body: []byte("demo")},
		{name: "opt/app/app.jar", body: []byte("jar-bytes")},
	})

	artifact, err := LocateArtifact(tree, scratch, DefaultRecipe())
	require.NoError(t, err)

	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	assert.Equal(t, []byte("jar-bytes"), data)
}

func TestLocateArtifactSubdirPrecedesLooseTar(t *testing.T) {
	tree := t.TempDir()
	scratch := t.TempDir()
	// 制品只在子目录层里，顶层散装tar不含制品
	writeTarFile(t, filepath.Join(tree, "aaa", "layer.tar"), []tarEntry{
		{name: "opt/app/app.jar", body: []byte("from-subdir-layer")},
	})
	writeTarFile(t, filepath.Join(tree, "000.tar"), []tarEntry{
		{name: "etc/passwd", body: []byte("root")},
	})

	artifact, err := LocateArtifact(tree, scratch, DefaultRecipe())
	require.NoError(t, err)

	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	assert.Equal(t, []byte("from-subdir-layer"), data)
}

func TestLocateArtifactLooseTarFallback(t *testing.T) {
	tree := t.TempDir()
	scratch := t.TempDir()
	// 按扩展名匹配，路径不必是约定路径
	writeTarFile(t, filepath.Join(tree, "layer0.tar"), []tarEntry{
		{name: "workdir/demo-1.0.jar", body: []byte("loose-jar")},
	})

	artifact, err := LocateArtifact(tree, scratch, DefaultRecipe())
	require.NoError(t, err)

	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	assert.Equal(t, []byte("loose-jar"), data)
	assert.Equal(t, "app.jar", filepath.Base(artifact))
}

func TestLocateArtifactOCIBlobLayer(t *testing.T) {
	tree := t.TempDir()
	scratch := t.TempDir()
	layer := tarBytes(t, []tarEntry{
		{name: "opt/app/app.jar", body: []byte("blob-jar")},
	})
	blobDir := filepath.Join(tree, "blobs", "sha256")
	require.NoError(t, os.MkdirAll(blobDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(blobDir, "aaa111"), gzipBytes(t, layer), 0644))
	writeManifest(t, tree, []ImageManifest{
		{Config: "blobs/sha256/cfg", Layers: []string{"blobs/sha256/aaa111"}},
	})

	artifact, err := LocateArtifact(tree, scratch, DefaultRecipe())
	require.NoError(t, err)

	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob-jar"), data)
}

func TestLocateArtifactNotFound(t *testing.T) {
	tree := t.TempDir()
	scratch := t.TempDir()
	writeTarFile(t, filepath.Join(tree, "lay1", "layer.tar"), []tarEntry{
		{name: "etc/hostname", body: []byte("demo")},
	})
	writeTarFile(t, filepath.Join(tree, "extra.tar"), []tarEntry{
		{name: "var/log/app.log", body: []byte("log")},
	})

	_, err := LocateArtifact(tree, scratch, DefaultRecipe())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArtifactNotFound))

	// 未命中的候选层的临时目录要被清理掉
	leftovers, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestLocateArtifactEmptyTree(t *testing.T) {
	_, err := LocateArtifact(t.TempDir(), t.TempDir(), DefaultRecipe())
	assert.True(t, errors.Is(err, ErrArtifactNotFound))
}
