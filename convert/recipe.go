package convert

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//
// @Author yfy2001
// @Date 2026/2/11 09 15
//

// 默认配方，与原始需求保持一致：jre基础镜像加开罗时区
const (
	defaultBaseImage    = "eclipse-temurin:8-jre-alpine"
	defaultTimezone     = "Africa/Cairo"
	defaultArtifactName = "app.jar"
	defaultArtifactPath = "opt/app/app.jar"
)

// Recipe 构建配方，决定生成的Dockerfile内容和制品定位规则
type Recipe struct {
	BaseImage    string   `yaml:"base_image"`    // 基础镜像，必须带apk
	Timezone     string   `yaml:"timezone"`      // IANA时区名
	ArtifactName string   `yaml:"artifact_name"` // 制品在构建上下文中的固定文件名
	ArtifactPath string   `yaml:"artifact_path"` // 制品在镜像层中的约定路径
	Entrypoint   []string `yaml:"entrypoint"`
}

// DefaultRecipe 返回默认构建配方
func DefaultRecipe() Recipe {
	return Recipe{
		BaseImage:    defaultBaseImage,
		Timezone:     defaultTimezone,
		ArtifactName: defaultArtifactName,
		ArtifactPath: defaultArtifactPath,
		Entrypoint:   []string{"java", "-jar", defaultArtifactName},
	}
}

// LoadRecipe 从yaml文件加载配方，缺失字段用默认值补齐
func LoadRecipe(path string) (Recipe, error) {
	recipe := DefaultRecipe()
	data, err := os.ReadFile(path)
	if err != nil {
		return recipe, fmt.Errorf("读取配方文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &recipe); err != nil {
		return recipe, fmt.Errorf("解析配方文件失败: %w", err)
	}
	if recipe.BaseImage == "" {
		recipe.BaseImage = defaultBaseImage
	}
	if recipe.Timezone == "" {
		recipe.Timezone = defaultTimezone
	}
	if recipe.ArtifactName == "" {
		recipe.ArtifactName = defaultArtifactName
	}
	if recipe.ArtifactPath == "" {
		recipe.ArtifactPath = defaultArtifactPath
	}
	if len(recipe.Entrypoint) == 0 {
		recipe.Entrypoint = []string{"java", "-jar", recipe.ArtifactName}
	}
	return recipe, nil
}

// Dockerfile 生成固定时区的构建文件内容
func (r Recipe) Dockerfile() string {
	entrypoint, _ := json.Marshal(r.Entrypoint)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("FROM %s\n", r.BaseImage))
	sb.WriteString(fmt.Sprintf("# Set timezone (%s with DST)\n", r.Timezone))
	sb.WriteString("RUN apk update && \\\n")
	sb.WriteString("    apk add --no-cache tzdata && \\\n")
	sb.WriteString(fmt.Sprintf("    cp /usr/share/zoneinfo/%s /etc/localtime && \\\n", r.Timezone))
	sb.WriteString(fmt.Sprintf("    echo \"%s\" > /etc/timezone\n", r.Timezone))
	sb.WriteString(fmt.Sprintf("WORKDIR /%s\n", path.Dir(r.ArtifactPath)))
	sb.WriteString(fmt.Sprintf("COPY %s %s\n", r.ArtifactName, r.ArtifactName))
	sb.WriteString(fmt.Sprintf("ENTRYPOINT %s\n", entrypoint))
	sb.WriteString(fmt.Sprintf("ENV TZ=%s\n", r.Timezone))
	return sb.String()
}

// artifactExt 制品的扩展名，用于镜像层内的后缀匹配
func (r Recipe) artifactExt() string {
	return path.Ext(r.ArtifactName)
}
