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
	"github.com/apex/log"
	"github.com/blacktop/introspect/internal/colors"
	"github.com/blacktop/introspect/internal/utils"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().Uint64P("load-address", "l", 0, "Address to load __TEXT at (default is symbols.load-address)")
	lookupCmd.Flags().StringP("fat-arch", "f", "", "Which architecture to use for fat/universal MachO")
}

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:           "lookup <MACHO> <SYMBOL>...",
	Short:         "Get the runtime address of symbols in a MachO",
	Args:          cobra.MinimumNArgs(2),
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Where does _objc_msgSend land when libobjc is loaded at 0x180000000?
		$ introspect lookup -l 0x180000000 /usr/lib/libobjc.A.dylib _objc_msgSend`),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup()
		if err != nil {
			return err
		}

		loadAddr := conf.Symbols.LoadAddress
		if cmd.Flags().Changed("load-address") {
			loadAddr, _ = cmd.Flags().GetUint64("load-address")
		}

		img, err := mapImage(cmd, args[0], loadAddr)
		if err != nil {
			return err
		}

		var missing int
		for _, name := range args[1:] {
			sym, ok := img.Lookup(name)
			if !ok {
				utils.Indent(log.Warn, 2)(fmt.Sprintf("%s not found", name))
				missing++
				continue
			}
			fmt.Printf("%s %s\n", colors.Addr(sym.Address), colors.Symbol().Sprint(sym.Name))
		}
		if missing > 0 {
			return fmt.Errorf("%d of %d symbols not found in %s", missing, len(args)-1, args[0])
		}
		return nil
	},
}
