package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	httpclient "github.com/namepay/namepay-api/internal/client/http"
	"github.com/namepay/namepay-api/internal/types"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type listResponse[T any] struct {
	Object string `json:"object"`
	Data   []T    `json:"data"`
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List supported tokens",
	Run:   runTokens,
}

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List supported chains",
	Run:   runChains,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(chainsCmd)
}

func fetchList[T any](cmd *cobra.Command, path, waitMsg string) ([]T, bool) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	client := httpclient.NewHTTPClient(httpclient.WithBaseURL(apiBaseURL()))

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = waitMsg
		s.Start()
	}

	resp, err := client.Get(context.Background(), path)
	var result listResponse[T]
	if err == nil {
		err = client.ProcessJSONResponse(resp, &result)
	}
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		out, _ := json.MarshalIndent(result.Data, "", "  ")
		fmt.Println(string(out))
	}
	return result.Data, jsonOutput
}

func runTokens(cmd *cobra.Command, args []string) {
	tokens, jsonOutput := fetchList[types.TokenInfo](cmd, "/api/v1/tokens", " Fetching tokens...")
	if jsonOutput {
		return
	}

	printHeading("\n%d supported token(s)\n", len(tokens))
	for _, token := range tokens {
		slugs := make([]string, 0, len(token.Chains))
		for slug := range token.Chains {
			slugs = append(slugs, slug)
		}
		sort.Strings(slugs)
		fmt.Printf("%s  %s\n",
			color.New(color.Bold).Sprintf("%-6s", token.Symbol),
			color.New(color.Faint).Sprintf("(%s, %d decimals)", token.Category, token.Decimals))
		printKV("chains", strings.Join(slugs, ", "))
	}
	fmt.Println()
}

func runChains(cmd *cobra.Command, args []string) {
	chains, jsonOutput := fetchList[types.ChainInfo](cmd, "/api/v1/chains", " Fetching chains...")
	if jsonOutput {
		return
	}

	printHeading("\n%d supported chain(s)\n", len(chains))
	for _, chain := range chains {
		var tags []string
		if chain.Hub {
			tags = append(tags, "hub")
		}
		if chain.HasHook {
			tags = append(tags, "hook")
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = color.New(color.Faint).Sprintf("  [%s]", strings.Join(tags, ", "))
		}
		fmt.Printf("%s  (chain id %d)%s\n",
			color.New(color.Bold).Sprintf("%-10s", chain.Slug), chain.ChainID, suffix)
	}
	fmt.Println()
}
