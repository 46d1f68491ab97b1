/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/blacktop/introspect/internal/colors"
	"github.com/blacktop/introspect/internal/utils"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(taggedCmd)
}

// taggedCmd represents the tagged command
var taggedCmd = &cobra.Command{
	Use:           "tagged <ADDR>...",
	Short:         "Check whether pointers are tagged pointers",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# A small NSNumber on arm64
		$ introspect tagged -a arm64 0xb000000000000012`),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup()
		if err != nil {
			return err
		}
		addrs, err := utils.ConvertStrsToInts(args)
		if err != nil {
			return err
		}

		cfg := conf.Target()
		for _, addr := range addrs {
			fmt.Printf("%s tagged=%s\n", colors.Addr(addr), colors.Bool(cfg.IsTaggedPointer(addr)))
		}
		return nil
	},
}
