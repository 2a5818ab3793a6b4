package main

import (
	"docker-tz/docker"
	"strings"

	"github.com/Yui100901/MyGo/file_utils"
	"github.com/Yui100901/MyGo/log_utils"
	"github.com/spf13/cobra"
)

//
// @Author yfy2001
// @Date 2026/2/9 10 20
//

func newLoadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [path]",
		Short: "导入转换后的Docker镜像，默认从new_tars，以及所有子目录寻找镜像",
		Run: func(cmd *cobra.Command, args []string) {
			path := "new_tars"
			if len(args) > 0 {
				path = args[0]
			}
			if err := loadImages(path); err != nil {
				log_utils.Error.Fatalf("Import failed: %v", err)
			}
		},
	}
	return cmd
}

func loadImages(path string) error {
	fileData, err := file_utils.NewFileData(path)
	if err != nil {
		return err
	}
	files, _, err := file_utils.TraverseDirFiles(fileData.AbsPath, true)
	if err != nil {
		return err
	}
	for _, file := range files {
		if !strings.HasSuffix(strings.ToLower(file.Path), ".tar") {
			continue
		}
		if err := docker.LoadImage(file.Path); err != nil {
			return err
		}
	}
	return nil
}
