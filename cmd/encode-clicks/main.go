package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Gunvolt24/ad_renderer/pkg/clickurl"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd - CLI: собрать цепочку редиректов в один клик-URL.
func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "encode-clicks [url ...]",
		Short: "Fold a redirect chain into one nested click URL",
		Long: `Fold a redirect chain into one click URL.

The first URL stays as the outer unencoded prefix; every next URL is nested one
more level of percent-encoding deeper. Without arguments URLs are read from
stdin, one per line.

Examples:

  encode-clicks http://tracker/ "http://landing/?x=1"
  printf 'http://tracker/\nhttp://landing/\n' | encode-clicks --json`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := args
			if len(urls) == 0 {
				var err error
				if urls, err = readLines(in); err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			encoded := clickurl.EncodeChain(urls)
			if !asJSON {
				_, err := fmt.Fprintln(out, encoded)
				return err
			}
			return json.NewEncoder(out).Encode(map[string]any{
				"chain":     urls,
				"click_url": encoded,
			})
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the chain and the encoded URL as JSON")
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
