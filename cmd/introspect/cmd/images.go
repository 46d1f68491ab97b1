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
	"os"
	"strings"
	"text/tabwriter"

	"github.com/blacktop/introspect/internal/colors"
	"github.com/blacktop/introspect/pkg/image"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(imagesCmd)

	imagesCmd.Flags().StringP("filter", "f", "", "Only show images whose path contains this")
	viper.BindPFlag("images.filter", imagesCmd.Flags().Lookup("filter"))
}

// imagesCmd represents the images command
var imagesCmd = &cobra.Command{
	Use:           "images",
	Short:         "List the images dyld loaded into this process",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := setup(); err != nil {
			return err
		}

		list, err := image.Loaded()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, colors.Bold().Sprint("HEADER\tSLIDE\tARCH\tSIZE\tSYMBOLS\tPATH"))
		for _, img := range list.Images() {
			if !strings.Contains(img.Name, viper.GetString("images.filter")) {
				continue
			}
			fmt.Fprintf(w, "%s\t%#x\t%s\t%s\t%s\t%s\n",
				colors.Addr(img.Header),
				img.Slide,
				img.Arch.Name,
				humanize.Bytes(img.Size()),
				humanize.Comma(int64(img.NumSymbols())),
				colors.Image().Sprint(img.Name),
			)
		}
		return w.Flush()
	},
}
