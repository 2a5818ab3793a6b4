package convert

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Yui100901/MyGo/file_utils"
	"github.com/Yui100901/MyGo/log_utils"
)

//
// @Author yfy2001
// @Date 2026/2/11 10 33
//

// LocateArtifact 在解压后的镜像目录中搜索应用制品。
// 依次尝试三类层候选：子目录下的layer.tar（传统导出布局）、
// 顶层的*.tar文件、manifest.json列出的OCI布局blob层。
// 命中第一个匹配条目即返回制品的提取路径，不保证多层都含匹配文件时
// 命中的是哪一层，候选顺序依赖目录遍历顺序。
// 所有候选都不含制品时返回ErrArtifactNotFound。
func LocateArtifact(tree, scratch string, recipe Recipe) (string, error) {
	entries, err := os.ReadDir(tree)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	// 子目录中的layer.tar优先
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		layerTar := filepath.Join(tree, entry.Name(), "layer.tar")
		if _, err := os.Stat(layerTar); err != nil {
			continue
		}
		artifact, err := extractFromLayer(layerTar, scratch, recipe)
		if err != nil {
			return "", err
		}
		if artifact != "" {
			return artifact, nil
		}
	}

	// 其次是顶层的散装tar文件
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tar") {
			continue
		}
		artifact, err := extractFromLayer(filepath.Join(tree, entry.Name()), scratch, recipe)
		if err != nil {
			return "", err
		}
		if artifact != "" {
			return artifact, nil
		}
	}

	// 最后按manifest.json记录的层路径搜索OCI布局的blob层
	for _, layerPath := range manifestLayerPaths(tree) {
		layerTar, err := materializeLayer(tree, layerPath, scratch)
		if err != nil {
			return "", err
		}
		if layerTar == "" {
			continue
		}
		artifact, err := extractFromLayer(layerTar, scratch, recipe)
		if err != nil {
			return "", err
		}
		if artifact != "" {
			return artifact, nil
		}
	}

	return "", ErrArtifactNotFound
}

// extractFromLayer 扫描单个层tar包，提取第一个匹配配方的条目。
// 未命中时清理临时目录并返回空路径，继续下一个候选。
func extractFromLayer(layerTar, scratch string, recipe Recipe) (string, error) {
	file, err := os.Open(layerTar)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer file.Close()

	layerDir, err := os.MkdirTemp(scratch, "layer-")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	tr := tar.NewReader(file)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			os.RemoveAll(layerDir)
			return "", fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if hdr.Name != recipe.ArtifactPath && !strings.HasSuffix(hdr.Name, recipe.artifactExt()) {
			continue
		}

		artifact := filepath.Join(layerDir, recipe.ArtifactName)
		if err := writeEntry(artifact, tr); err != nil {
			os.RemoveAll(layerDir)
			return "", fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		log_utils.Info.Println("找到应用制品", hdr.Name)
		return artifact, nil
	}

	os.RemoveAll(layerDir)
	return "", nil
}

// manifestLayerPaths 读取manifest.json中所有镜像的层路径，
// 清单缺失或损坏时返回空列表，交给上层判定制品未找到
func manifestLayerPaths(tree string) []string {
	entries, err := readManifest(tree)
	if err != nil {
		return nil
	}
	var paths []string
	for _, entry := range entries {
		paths = append(paths, entry.Layers...)
	}
	return paths
}

// materializeLayer 把清单记录的层文件准备成可扫描的tar包。
// OCI布局的blob层通常是gzip压缩的，按魔数识别并解压到临时文件。
// 层文件不存在或已按其他布局扫描过时返回空路径。
func materializeLayer(tree, layerPath, scratch string) (string, error) {
	full := filepath.Join(tree, filepath.FromSlash(layerPath))
	if _, err := os.Stat(full); err != nil {
		return "", nil
	}

	gzipped, err := isGzip(full)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if !gzipped {
		return full, nil
	}

	dir, err := os.MkdirTemp(scratch, "blob-")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	layerTar := filepath.Join(dir, "layer.tar")
	if err := file_utils.DecompressGzip(full, layerTar); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("%w: 解压层失败: %v", ErrExtraction, err)
	}
	return layerTar, nil
}

func isGzip(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	magic := make([]byte, 2)
	if _, err := io.ReadFull(file, magic); err != nil {
		// 不足两字节的文件肯定不是gzip
		return false, nil
	}
	return magic[0] == 0x1f && magic[1] == 0x8b, nil
}
