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
	"path/filepath"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/blacktop/introspect/internal/colors"
	"github.com/blacktop/introspect/internal/objc"
	"github.com/blacktop/introspect/internal/utils"
	"github.com/blacktop/introspect/pkg/memory"
	objcrt "github.com/blacktop/introspect/pkg/objc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(classCmd)

	classCmd.Flags().BoolP("list", "l", false, "List the classes registered by each image")
	classCmd.Flags().StringP("image", "i", "", "Only list classes of images whose path contains this")
	viper.BindPFlag("class.list", classCmd.Flags().Lookup("list"))
	viper.BindPFlag("class.image", classCmd.Flags().Lookup("image"))
}

// classCmd represents the class command
var classCmd = &cobra.Command{
	Use:           "class [NAME]...",
	Short:         "Show the superclass chain of Objective-C classes loaded in this process",
	Long:          "Requires a darwin build with the objc build tag.",
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Superclass chain of NSMutableString
		$ introspect class NSMutableString

		# Classes registered by Foundation
		$ introspect class --list --image Foundation`),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup()
		if err != nil {
			return err
		}
		if !objc.Supported {
			return objc.ErrUnsupported
		}

		if viper.GetBool("class.list") {
			byImage := objc.ClassNames()
			images := make([]string, 0, len(byImage))
			for img := range byImage {
				if strings.Contains(img, viper.GetString("class.image")) {
					images = append(images, img)
				}
			}
			slices.Sort(images)
			for _, img := range images {
				fmt.Println(colors.Image().Sprint(img))
				names := byImage[img]
				slices.Sort(names)
				for _, name := range names {
					fmt.Printf("%s%s\n", utils.Pad(4), colors.Symbol().Sprint(name))
				}
			}
			return nil
		}

		r := objcrt.NewResolver(memory.Self{}, conf.Target(), objc.Host{})
		for _, name := range args {
			cls, err := objc.Lookup(name)
			if err != nil {
				return err
			}
			chain, err := r.Hierarchy(cls)
			if err != nil {
				return err
			}
			for depth, c := range chain {
				fmt.Printf("%s%s %s %s\n",
					strings.Repeat("  ", depth),
					colors.Addr(uint64(c)),
					colors.Symbol().Sprint(objc.ClassName(c)),
					colors.Image().Sprint(filepath.Base(objc.ClassImage(c))),
				)
			}
		}
		return nil
	},
}
