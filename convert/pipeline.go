package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docker-tz/docker"

	"github.com/Yui100901/MyGo/log_utils"
)

//
// @Author yfy2001
// @Date 2026/2/11 14 02
//

// Backend 外部容器引擎能力，测试中可替换为假实现
type Backend interface {
	// Build 以构建上下文目录构建镜像并打上tag
	Build(contextDir, tag string) error
	// Export 把镜像导出为tar包
	Export(tag, outputFile string) error
}

// engineBackend 基于本机docker引擎的默认实现，
// 构建走命令行，导出按配置走命令行或Docker API
type engineBackend struct {
	useAPI bool
}

func (b engineBackend) Build(contextDir, tag string) error {
	return docker.BuildImage(contextDir, tag)
}

func (b engineBackend) Export(tag, outputFile string) error {
	if b.useAPI {
		return docker.SaveImages([]string{tag}, outputFile)
	}
	return docker.SaveImage(tag, outputFile)
}

// Pipeline 单个镜像tar包的转换流水线
type Pipeline struct {
	Backend Backend
	Recipe  Recipe
	Prune   bool // 导出成功后从引擎删除新构建的镜像
}

// Process 转换单个镜像tar包，返回输出文件路径。
// 运行期间的所有临时目录挂在同一个临时根下，无论成败整体删除。
func (p *Pipeline) Process(tarFile, outputDir string) (string, error) {
	log_utils.Info.Println("处理镜像tar包", tarFile)

	runDir, err := os.MkdirTemp("", "docker-tz-")
	if err != nil {
		return "", fmt.Errorf("创建临时目录失败: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(runDir); err != nil {
			log_utils.Error.Printf("警告: 清理临时目录 %s 失败: %v", runDir, err)
		}
	}()

	imageDir := filepath.Join(runDir, "image")
	if err := ExtractTar(tarFile, imageDir); err != nil {
		return "", err
	}

	artifact, err := LocateArtifact(imageDir, runDir, p.Recipe)
	if err != nil {
		return "", err
	}

	identity := ResolveIdentity(imageDir)
	if identity.Name == "" {
		identity.Name = archiveStem(tarFile)
	}
	if identity.Tag == "" {
		identity.Tag = "latest"
	}

	buildDir, err := p.stageBuildContext(runDir, artifact)
	if err != nil {
		return "", err
	}

	tag := fmt.Sprintf("%s-tz:%s", identity.Name, identity.Tag)
	if err := p.Backend.Build(buildDir, tag); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBuildBackend, err)
	}

	outputFile := filepath.Join(outputDir, exportFileName(identity))
	if err := p.Backend.Export(tag, outputFile); err != nil {
		// 不保留半截的输出文件
		os.Remove(outputFile)
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}

	if p.Prune {
		if err := docker.ImageRemove(tag); err != nil {
			log_utils.Error.Printf("警告: 删除镜像 %s 失败: %v", tag, err)
		}
	}

	log_utils.Info.Println("转换完成", outputFile)
	return outputFile, nil
}

// stageBuildContext 准备构建上下文：制品改名为约定文件名，外加生成的Dockerfile
func (p *Pipeline) stageBuildContext(runDir, artifact string) (string, error) {
	buildDir := filepath.Join(runDir, "build")
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return "", fmt.Errorf("创建构建目录失败: %w", err)
	}

	if err := copyFile(artifact, filepath.Join(buildDir, p.Recipe.ArtifactName)); err != nil {
		return "", fmt.Errorf("复制制品失败: %w", err)
	}

	dockerfile := filepath.Join(buildDir, "Dockerfile")
	if err := os.WriteFile(dockerfile, []byte(p.Recipe.Dockerfile()), 0644); err != nil {
		return "", fmt.Errorf("写入Dockerfile失败: %w", err)
	}
	return buildDir, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// archiveStem 取tar包文件名去掉扩展名作为镜像名兜底
func archiveStem(tarFile string) string {
	name := filepath.Base(tarFile)
	return name[:len(name)-len(filepath.Ext(name))]
}

// exportFileName 输出文件名，镜像名中的路径分隔符和冒号替换为下划线
func exportFileName(identity Identity) string {
	name := strings.ReplaceAll(identity.Name, "/", "_")
	name = strings.ReplaceAll(name, ":", "_")
	return fmt.Sprintf("%s-tz-%s.tar", name, identity.Tag)
}
