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
	rootCmd.AddCommand(objectCmd)

	objectCmd.Flags().IntP("pid", "p", 0, "Read objects out of this process (default is introspect itself)")
	objectCmd.Flags().Bool("hierarchy", false, "Also walk the superclass chain")
	viper.BindPFlag("object.pid", objectCmd.Flags().Lookup("pid"))
	viper.BindPFlag("object.hierarchy", objectCmd.Flags().Lookup("hierarchy"))
}

// objectSource picks where objects are read from and who answers superclass
// queries. In this process libobjc is asked directly when it is linked in;
// another process only has its class structures.
func objectSource(pid int) (memory.Reader, objcrt.Runtime) {
	if pid != 0 && pid != os.Getpid() {
		return memory.Process{Pid: pid}, nil
	}
	if objc.Supported {
		return memory.Self{}, objc.Host{}
	}
	return memory.Self{}, nil
}

// objectCmd represents the object command
var objectCmd = &cobra.Command{
	Use:           "object <ADDR>...",
	Aliases:       []string{"obj"},
	Short:         "Resolve the class of Objective-C objects in a live process",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Class of an object in another process
		$ introspect object --pid 4242 0x600000c04000

		# Include the superclass chain
		$ introspect object --pid 4242 --hierarchy 0x600000c04000`),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup()
		if err != nil {
			return err
		}
		addrs, err := utils.ConvertStrsToInts(args)
		if err != nil {
			return err
		}

		mem, rt := objectSource(viper.GetInt("object.pid"))
		r := objcrt.NewResolver(mem, conf.Target(), rt)
		for _, addr := range addrs {
			if r.IsTaggedPointer(addr) {
				fmt.Printf("%s %s\n", colors.Addr(addr), colors.Warn().Sprint("tagged pointer"))
				continue
			}
			cls, enc, err := r.ClassOfWithEncoding(addr)
			if err != nil {
				return err
			}
			fmt.Printf("%s isa=%s (%s)\n", colors.Addr(addr), colors.Symbol().Sprint(cls), enc)
			if !viper.GetBool("object.hierarchy") {
				continue
			}
			chain, err := r.Hierarchy(cls)
			if err != nil {
				return err
			}
			parts := make([]string, 0, len(chain))
			for _, c := range chain {
				parts = append(parts, c.String())
			}
			fmt.Printf("%s%s\n", utils.Pad(4), strings.Join(parts, " -> "))
		}
		return nil
	},
}
