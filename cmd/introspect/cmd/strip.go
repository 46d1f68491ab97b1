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
	"github.com/blacktop/introspect/pkg/ptrauth"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(stripCmd)
}

// stripCmd represents the strip command
var stripCmd = &cobra.Command{
	Use:           "strip <ADDR>...",
	Short:         "Strip pointer authentication codes from addresses",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Strip a signed arm64e function pointer
		$ introspect strip -a arm64e 0x8a1b000194c3d4e8`),
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
		host := ptrauth.Host()
		log.WithFields(log.Fields{
			"arch":     cfg.Name,
			"ptrauth":  cfg.PtrAuth,
			"host":     host.Brand,
			"host_pac": host.PAC,
		}).Debug("Stripping pointers")
		if ptrauth.SoftwareOnly(cfg) {
			log.Warnf("%s signs pointers but this CPU has no pointer authentication; stripping by mask only", cfg.Name)
		}

		for _, addr := range addrs {
			stripped := ptrauth.Strip(cfg, addr)
			if stripped != addr {
				fmt.Printf("%s -> %s\n", colors.Warn().Sprintf("%#016x", addr), colors.Addr(stripped))
			} else {
				fmt.Printf("%s -> %s\n", colors.Addr(addr), colors.Addr(stripped))
			}
		}
		return nil
	},
}
