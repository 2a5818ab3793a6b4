package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Yui100901/MyGo/file_utils"
	"github.com/Yui100901/MyGo/log_utils"
	"github.com/spf13/cobra"
)

//
// @Author yfy2001
// @Date 2026/2/11 16 40
//

const (
	defaultInputDirName  = "old_tars"
	defaultOutputDirName = "new_tars"
)

func NewConvertCommand() *cobra.Command {
	var inputDir string
	var outputDir string
	var configFile string
	var useAPI bool
	var prune bool
	cmd := &cobra.Command{
		Use:   "convert [working-directory]",
		Short: "批量转换镜像tar包，重打包为固定时区的新镜像，默认处理old_tars下的tar包并输出到new_tars",
		Run: func(cmd *cobra.Command, args []string) {
			workingDir := "."
			if len(args) > 0 {
				workingDir = args[0]
			}
			if inputDir == "" {
				inputDir = filepath.Join(workingDir, defaultInputDirName)
			}
			if outputDir == "" {
				outputDir = filepath.Join(workingDir, defaultOutputDirName)
			}

			recipe := DefaultRecipe()
			if configFile != "" {
				var err error
				if recipe, err = LoadRecipe(configFile); err != nil {
					log_utils.Error.Fatalf("加载配方失败: %v", err)
				}
			}

			pipeline := &Pipeline{
				Backend: engineBackend{useAPI: useAPI},
				Recipe:  recipe,
				Prune:   prune,
			}
			if err := RunBatch(inputDir, outputDir, pipeline); err != nil {
				log_utils.Error.Fatalf("Convert failed: %v", err)
			}
		},
	}
	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "输入目录，覆盖默认的old_tars")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "输出目录，覆盖默认的new_tars")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "yaml配方文件，配置基础镜像、时区、制品名和入口命令")
	cmd.Flags().BoolVarP(&useAPI, "api", "", false, "通过Docker API导出镜像而非docker命令行")
	cmd.Flags().BoolVarP(&prune, "prune", "p", false, "导出成功后删除新构建的镜像")
	return cmd
}

// RunBatch 逐个转换输入目录下的tar包。
// 单个文件失败不会中断批处理，全部处理完后打印汇总，
// 只要有失败就返回错误。
func RunBatch(inputDir, outputDir string, pipeline *Pipeline) error {
	tarFiles, err := listTarFiles(inputDir)
	if err != nil {
		return err
	}
	if len(tarFiles) == 0 {
		log_utils.Info.Println("输入目录中没有tar包", inputDir)
		return nil
	}

	if _, err := file_utils.CreateDirectory(outputDir); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	log_utils.Info.Printf("共%d个tar包待转换", len(tarFiles))

	successCount := 0
	failCount := 0
	for _, tarFile := range tarFiles {
		if _, err := pipeline.Process(tarFile, outputDir); err != nil {
			failCount++
			log_utils.Error.Printf("转换失败 %s: %v", filepath.Base(tarFile), err)
			continue
		}
		successCount++
	}

	log_utils.Info.Printf("转换汇总: 总数%d 成功%d 失败%d", len(tarFiles), successCount, failCount)
	if failCount > 0 {
		return fmt.Errorf("%d个tar包转换失败", failCount)
	}
	return nil
}

// listTarFiles 列出目录下的tar包，扩展名匹配不区分大小写
func listTarFiles(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("输入目录不可用: %w", err)
	}
	var tarFiles []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".tar") {
			continue
		}
		tarFiles = append(tarFiles, filepath.Join(inputDir, entry.Name()))
	}
	sort.Strings(tarFiles)
	return tarFiles, nil
}
