package convert

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

//
// @Author yfy2001
// @Date 2026/2/10 16 44
//

// containerd在OCI布局index.json中记录完整镜像引用的注解
const containerdImageNameAnnotation = "io.containerd.image.name"

// ImageManifest 镜像导出tar包中manifest.json的清单条目
type ImageManifest struct {
	Config   string   `json:"Config"`
	Layers   []string `json:"Layers"`
	RepoTags []string `json:"RepoTags"`
}

// Identity 从镜像元数据中恢复的原始名称和tag，字段可能为空
type Identity struct {
	Name string
	Tag  string
}

// ResolveIdentity 从解压后的镜像目录恢复镜像名称和tag。
// 优先读manifest.json的第一个RepoTags，OCI布局下回退到index.json注解。
// 清单缺失或无法解析时返回空Identity，由调用方补默认值，不视为错误。
func ResolveIdentity(tree string) Identity {
	entries, err := readManifest(tree)
	if err == nil {
		if id := identityFromManifest(entries); id.Name != "" {
			return id
		}
	}
	return identityFromIndex(tree)
}

func readManifest(tree string) ([]ImageManifest, error) {
	data, err := os.ReadFile(filepath.Join(tree, "manifest.json"))
	if err != nil {
		return nil, err
	}
	var entries []ImageManifest
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func identityFromManifest(entries []ImageManifest) Identity {
	if len(entries) == 0 || len(entries[0].RepoTags) == 0 {
		return Identity{}
	}
	return splitRepoTag(entries[0].RepoTags[0])
}

// identityFromIndex 从OCI布局的index.json恢复镜像引用
func identityFromIndex(tree string) Identity {
	data, err := os.ReadFile(filepath.Join(tree, "index.json"))
	if err != nil {
		return Identity{}
	}
	var index ocispec.Index
	if err := json.Unmarshal(data, &index); err != nil {
		return Identity{}
	}
	for _, m := range index.Manifests {
		// ref.name注解只有裸tag，完整引用在containerd的注解里
		ref := m.Annotations[containerdImageNameAnnotation]
		if ref == "" {
			continue
		}
		ref = strings.TrimPrefix(ref, "docker.io/library/")
		return splitRepoTag(ref)
	}
	return Identity{}
}

// splitRepoTag 按最后一个冒号拆分name和tag
func splitRepoTag(repoTag string) Identity {
	if i := strings.LastIndex(repoTag, ":"); i >= 0 {
		return Identity{Name: repoTag[:i], Tag: repoTag[i+1:]}
	}
	return Identity{Name: repoTag}
}
