package docker

import (
	"github.com/Yui100901/MyGo/command"
	"github.com/Yui100901/MyGo/log_utils"
)

//
// @Author yfy2001
// @Date 2026/2/9 11 02
//

// BuildImage 构建Docker镜像
func BuildImage(contextDir, tag string) error {
	log_utils.Info.Println("构建镜像", tag)
	args := []string{"build", "-t", tag, contextDir}
	return command.RunCommand("docker", args...)
}

// SaveImage 导出Docker镜像到指定tar包
func SaveImage(tag, outputFile string) error {
	log_utils.Info.Println("导出镜像", tag)
	args := []string{"save", "-o", outputFile, tag}
	return command.RunCommand("docker", args...)
}

// ImageRemove 删除docker镜像
func ImageRemove(images ...string) error {
	log_utils.Info.Println("删除镜像", images)
	args := append([]string{"rmi"}, images...)
	return command.RunCommand("docker", args...)
}
