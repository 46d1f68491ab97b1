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
	"text/tabwriter"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/blacktop/introspect/internal/colors"
	"github.com/blacktop/introspect/internal/utils"
	"github.com/blacktop/introspect/pkg/arch"
	"github.com/blacktop/introspect/pkg/ptrauth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type maskInfo struct {
	Arch        string `yaml:"arch"`
	PointerSize int    `yaml:"pointer_size"`
	TaggedMask  string `yaml:"tagged_mask"`
	IsaMask     string `yaml:"isa_mask"`
	MagicMask   string `yaml:"magic_mask"`
	MagicValue  string `yaml:"magic_value"`
	ClassMask   string `yaml:"class_mask"`
	PtrAuth     bool   `yaml:"ptrauth"`
}

func hex(v uint64) string { return fmt.Sprintf("%#x", v) }

func printMasksYAML(configs []*arch.Config) error {
	infos := make([]maskInfo, 0, len(configs))
	for _, c := range configs {
		infos = append(infos, maskInfo{
			Arch:        c.Name,
			PointerSize: c.PointerSize,
			TaggedMask:  hex(c.TaggedMask),
			IsaMask:     hex(c.Isa.Mask),
			MagicMask:   hex(c.Isa.MagicMask),
			MagicValue:  hex(c.Isa.MagicValue),
			ClassMask:   hex(c.ClassMask()),
			PtrAuth:     c.PtrAuth,
		})
	}
	out, err := yaml.Marshal(infos)
	if err != nil {
		return fmt.Errorf("failed to marshal masks: %v", err)
	}
	if colors.Enabled() {
		return quick.Highlight(os.Stdout, string(out), "yaml", "terminal256", "nord")
	}
	_, err = os.Stdout.Write(out)
	return err
}

func init() {
	rootCmd.AddCommand(maskCmd)

	maskCmd.Flags().Bool("all", false, "Show every known architecture")
	maskCmd.Flags().BoolP("bits", "b", false, "Show the bits of the class mask")
	maskCmd.Flags().Bool("yaml", false, "Output as YAML")
	viper.BindPFlag("mask.all", maskCmd.Flags().Lookup("all"))
	viper.BindPFlag("mask.bits", maskCmd.Flags().Lookup("bits"))
	viper.BindPFlag("mask.yaml", maskCmd.Flags().Lookup("yaml"))
}

// maskCmd represents the mask command
var maskCmd = &cobra.Command{
	Use:           "mask",
	Short:         "Show the isa and tagged pointer masks of an architecture",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup()
		if err != nil {
			return err
		}

		configs := []*arch.Config{conf.Target()}
		if viper.GetBool("mask.all") {
			configs = arch.All()
		}

		if viper.GetBool("mask.yaml") {
			return printMasksYAML(configs)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, colors.Bold().Sprint("ARCH\tPTR\tTAGGED\tISA MASK\tMAGIC MASK\tMAGIC VALUE\tCLASS MASK\tPAC"))
		for _, c := range configs {
			fmt.Fprintf(w, "%s\t%d\t%#x\t%#x\t%#x\t%#x\t%#x\t%t\n",
				c.Name,
				c.PointerSize,
				c.TaggedMask,
				c.Isa.Mask,
				c.Isa.MagicMask,
				c.Isa.MagicValue,
				c.ClassMask(),
				c.PtrAuth,
			)
		}
		w.Flush()

		host := ptrauth.Host()
		fmt.Println()
		fmt.Println(colors.KeyValue("host", fmt.Sprintf("%s (%s)", host.Brand, host.Vendor)))
		fmt.Println(colors.KeyValue("host pac", colors.Bool(host.PAC)))

		if viper.GetBool("mask.bits") {
			for _, c := range configs {
				fmt.Printf("\n%s class mask\n%s\n", c.Name, utils.Bits(c.ClassMask()))
			}
		}
		return nil
	},
}
