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
	"errors"
	"fmt"
	"runtime"

	"github.com/apex/log"
	"github.com/blacktop/introspect/internal/colors"
	"github.com/blacktop/introspect/pkg/image"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// nearest returns the defined symbol closest below addr.
func nearest(img *image.Image, addr uint64) (image.Symbol, bool) {
	var (
		best  image.Symbol
		found bool
	)
	for sym := range image.DefinedOnly(img.All()) {
		if sym.Address <= addr && (!found || sym.Address > best.Address) {
			best = sym
			found = true
		}
	}
	return best, found
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:           "whoami",
	Short:         "Find the image that contains the calling code",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := setup(); err != nil {
			return err
		}

		list, err := image.Loaded()
		if err != nil {
			if !errors.Is(err, image.ErrUnsupported) {
				return err
			}
			log.WithError(err).Warn("Cannot enumerate loaded images")
			list = image.NewList()
		}

		img, addr, ok := image.Self(list)
		caller := "?"
		if fn := runtime.FuncForPC(uintptr(addr) - 1); fn != nil {
			caller = fn.Name()
		}
		fmt.Println(colors.KeyValue("caller", fmt.Sprintf("%s (%s)", colors.Addr(addr), caller)))
		if !ok {
			return fmt.Errorf("no loaded image contains %#x", addr)
		}
		fmt.Println(colors.KeyValue("image", colors.Image().Sprint(img.Name)))
		fmt.Println(colors.KeyValue("header", colors.Addr(img.Header)))
		fmt.Println(colors.KeyValue("slide", fmt.Sprintf("%#x", img.Slide)))
		if sym, ok := nearest(img, addr); ok {
			fmt.Println(colors.KeyValue("symbol", fmt.Sprintf("%s + %#x", colors.Symbol().Sprint(sym.Name), addr-sym.Address)))
		}
		return nil
	},
}
