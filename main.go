package main

import (
	"docker-tz/convert"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//
// @Author yfy2001
// @Date 2026/2/9 10 12
//

func main() {
	rootCmd := &cobra.Command{
		Use:   "docker-tz <command>",
		Short: "Docker镜像时区转换工具，批量为镜像tar包固定时区.\nAuthor:Yui",
		Run: func(cmd *cobra.Command, args []string) {
			err := cmd.Help()
			if err != nil {
				return
			}
		},
	}

	rootCmd.AddCommand(convert.NewConvertCommand())
	rootCmd.AddCommand(newLoadCommand())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
