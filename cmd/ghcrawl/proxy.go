package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/ghcrawl/internal/proxy"
)

// NewProxyCmd creates the proxy command group.
func NewProxyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Inspect the proxy list",
	}
	cmd.AddCommand(newProxyCheckCmd())
	return cmd
}

func newProxyCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe every proxy in the list",
		Long: `Check reads the proxy list and tests whether each proxy can reach the
search site. HTTP proxies get a HEAD request; SOCKS5 proxies must open a
TCP connection to the site.

Examples:
  ghcrawl proxy check
  ghcrawl proxy check --proxies proxies.txt --timeout 5s`,
		Args: cobra.NoArgs,
		RunE: runProxyCheckCmd,
	}

	cmd.Flags().StringP("proxies", "p", "", "Proxy list file (default: configured list)")
	cmd.Flags().Duration("timeout", 10*time.Second, "Timeout per proxy")
	cmd.Flags().Int("concurrency", 4, "Proxies probed in parallel")
	cmd.Flags().String("target", "", "URL to reach through each proxy (default: configured base URL)")

	return cmd
}

// runProxyCheckCmd executes the proxy check command.
func runProxyCheckCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	if path, _ := flags.GetString("proxies"); path != "" { //nolint:errcheck // flag is defined above
		cfg.ProxyFile = path
	}
	target := cfg.BaseURL
	if t, _ := flags.GetString("target"); t != "" { //nolint:errcheck // flag is defined above
		target = t
	}
	timeout, err := flags.GetDuration("timeout")
	if err != nil {
		return err
	}
	concurrency, err := flags.GetInt("concurrency")
	if err != nil {
		return err
	}

	entries, err := proxy.LoadFile(cfg.ProxyFile)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(out, "No proxies in %s; requests will connect directly.\n", cfg.ProxyFile)
		return nil
	}

	proxies, err := proxy.ParseAll(entries)
	if err != nil {
		return err
	}

	prober, err := proxy.NewProber(target,
		proxy.WithProbeTimeout(timeout),
		proxy.WithProbeConcurrency(concurrency),
	)
	if err != nil {
		return err
	}

	results := prober.ProbeAll(cmd.Context(), proxies)
	if printProbeResults(out, results) == 0 {
		return fmt.Errorf("none of %d proxies can reach %s", len(results), target)
	}
	return nil
}

// printProbeResults writes one line per proxy and returns how many are usable.
func printProbeResults(out io.Writer, results []proxy.ProbeResult) int {
	ok := 0
	for _, r := range results {
		if r.Status == proxy.StatusOK {
			ok++
			fmt.Fprintf(out, "  OK    %-40s  %s\n", r.Proxy.Redacted(), r.Latency.Round(time.Millisecond))
			continue
		}
		fmt.Fprintf(out, "  FAIL  %-40s  %s\n", r.Proxy.Redacted(), r.Status)
	}
	fmt.Fprintf(out, "\n%d of %d proxies usable\n", ok, len(results))
	return ok
}
