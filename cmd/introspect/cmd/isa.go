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
	objcrt "github.com/blacktop/introspect/pkg/objc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(isaCmd)

	isaCmd.Flags().BoolP("bits", "b", false, "Show the bits of each word")
	isaCmd.Flags().Bool("strict", false, "Fail on words with an unknown isa encoding")
	viper.BindPFlag("isa.bits", isaCmd.Flags().Lookup("bits"))
	viper.BindPFlag("isa.strict", isaCmd.Flags().Lookup("strict"))
}

// isaCmd represents the isa command
var isaCmd = &cobra.Command{
	Use:           "isa <WORD>...",
	Short:         "Decode isa words into class pointers",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Decode a packed x86_64 isa
		$ introspect isa --arch x86_64 0x001d8001000c1d69

		# Decode several arm64e words and show their bits
		$ introspect isa -a arm64e --bits 0x0100000203a4c2b1 0x00000001e2345678`),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup()
		if err != nil {
			return err
		}
		words, err := utils.ConvertStrsToInts(args)
		if err != nil {
			return err
		}

		cfg := conf.Target()
		for _, word := range words {
			cls, enc := objcrt.Decode(cfg, word)
			if enc == objcrt.Unknown && viper.GetBool("isa.strict") {
				return fmt.Errorf("isa %#x does not match the %s packed layout", word, cfg)
			}
			encoding := enc.String()
			if enc == objcrt.Unknown {
				encoding = colors.Warn().Sprint(encoding)
			}
			fmt.Printf("%s -> %s (%s)\n", colors.Addr(word), colors.Symbol().Sprint(cls), encoding)
			if viper.GetBool("isa.bits") {
				fmt.Println(utils.Bits(word))
			}
		}
		return nil
	},
}
