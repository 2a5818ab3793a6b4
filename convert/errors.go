package convert

import "errors"

//
// @Author yfy2001
// @Date 2026/2/10 15 08
//

// 单次转换流水线的错误类别，批处理层用errors.Is区分。
// 清单解析失败不在其中，解析失败只会退化为文件名命名。
var (
	ErrExtraction       = errors.New("镜像tar包解压失败")
	ErrArtifactNotFound = errors.New("未在任何镜像层中找到应用制品")
	ErrBuildBackend     = errors.New("镜像构建失败")
	ErrExport           = errors.New("镜像导出失败")
)
