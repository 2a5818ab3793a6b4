package convert

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

//
// @Author yfy2001
// @Date 2026/2/10 15 21
//

// ExtractTar 解压tar包到目标目录。
// 只还原目录和普通文件的内容，不保留符号链接、权限和属主，
// 解出的目录树由调用方整体删除。
func ExtractTar(tarFile, destDir string) error {
	file, err := os.Open(tarFile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer file.Close()

	if err := extractStream(file, destDir); err != nil {
		return fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return nil
}

func extractStream(r io.Reader, destDir string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		target, err := entryPath(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch {
		case hdr.FileInfo().IsDir():
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case hdr.Typeflag == tar.TypeReg:
			if err := writeEntry(target, tr); err != nil {
				return err
			}
		default:
			// 链接、设备等条目直接跳过
		}
	}
	return nil
}

// entryPath 拼接条目输出路径，拒绝逃逸出目标目录的条目名
func entryPath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, name)
	if target != filepath.Clean(destDir) &&
		!strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("非法的条目路径: %s", name)
	}
	return target, nil
}

func writeEntry(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
