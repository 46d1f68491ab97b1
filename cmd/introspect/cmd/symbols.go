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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/introspect/internal/colors"
	"github.com/blacktop/introspect/internal/config"
	"github.com/blacktop/introspect/pkg/arch"
	"github.com/blacktop/introspect/pkg/image"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(symbolsCmd)

	symbolsCmd.Flags().Uint64P("load-address", "l", 0, "Address to load __TEXT at (default is the link address)")
	symbolsCmd.Flags().BoolP("defined", "d", false, "Only show named symbols defined in a section")
	symbolsCmd.Flags().IntP("limit", "n", 0, "Stop after this many symbols")
	symbolsCmd.Flags().StringP("fat-arch", "f", "", "Which architecture to use for fat/universal MachO")
	symbolsCmd.RegisterFlagCompletionFunc("fat-arch", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return arch.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	viper.BindPFlag("symbols.load-address", symbolsCmd.Flags().Lookup("load-address"))
	viper.BindPFlag("symbols.defined", symbolsCmd.Flags().Lookup("defined"))
	viper.BindPFlag("symbols.limit", symbolsCmd.Flags().Lookup("limit"))
}

// mapImage maps the Mach-O at path the way dyld would and parses it back out
// of memory.
func mapImage(cmd *cobra.Command, path string, loadAddr uint64) (*image.Image, error) {
	conf := &image.MapConfig{LoadAddress: loadAddr}
	if fatArch, _ := cmd.Flags().GetString("fat-arch"); fatArch != "" {
		cfg, err := arch.Lookup(fatArch)
		if err != nil {
			return nil, err
		}
		conf.Arch = cfg
	}
	m, err := image.Map(filepath.Clean(path), conf)
	if err != nil {
		return nil, err
	}
	img, err := m.Image(path)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"header":  fmt.Sprintf("%#x", img.Header),
		"slide":   fmt.Sprintf("%#x", img.Slide),
		"size":    humanize.Bytes(img.Size()),
		"symbols": humanize.Comma(int64(img.NumSymbols())),
	}).Info(img.Arch.Name)
	return img, nil
}

func symbolKind(sym image.Symbol) string {
	if kind, ok := sym.Kind(); ok {
		return kind.String()
	}
	return "stab"
}

// symbolsCmd represents the symbols command
var symbolsCmd = &cobra.Command{
	Use:           "symbols <MACHO>",
	Aliases:       []string{"syms"},
	Short:         "Walk the symbol table of a MachO as loaded in memory",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Walk every symbol record, in link order
		$ introspect symbols /usr/lib/dyld

		# Load at a different base and only show defined symbols
		$ introspect symbols --load-address 0x200000000 --defined ./a.out

		# Pick the arm64e slice of a universal binary
		$ introspect symbols --fat-arch arm64e /usr/lib/libobjc.A.dylib`),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup()
		if err != nil {
			return err
		}

		img, err := mapImage(cmd, args[0], conf.Symbols.LoadAddress)
		if err != nil {
			return err
		}

		return printSymbols(img, conf)
	},
}

func printSymbols(img *image.Image, conf *config.Config) error {
	var count int
	it := img.Symbols()
	for {
		sym, ok := it.Next()
		if !ok {
			break
		}
		if conf.Symbols.Defined && !sym.IsDefined() {
			continue
		}
		name := sym.Name
		if name == "" {
			name = colors.Faint().Sprint("<no name>")
		} else {
			name = colors.Symbol().Sprint(name)
		}
		fmt.Printf("%s %-9s %s\n", colors.Addr(sym.Address), symbolKind(sym), name)
		if count++; conf.Symbols.Limit > 0 && count >= conf.Symbols.Limit {
			break
		}
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("symbol table walk stopped after %d of %d records: %v", it.Len()-it.Remaining(), it.Len(), err)
	}
	return nil
}
