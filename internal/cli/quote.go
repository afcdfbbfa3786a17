package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	httpclient "github.com/namepay/namepay-api/internal/client/http"
	"github.com/namepay/namepay-api/internal/routing"
	"github.com/namepay/namepay-api/internal/types"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var quoteFlags struct {
	payer        string
	receiverName string
	text         string
	action       string
	fromToken    string
	toToken      string
	amount       string
	fromChain    string
	toChain      string
	toAddress    string
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Fetch route candidates for a payment intent",
	Run:   runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteFlags.payer, "payer", "", "Payer address (required)")
	quoteCmd.Flags().StringVar(&quoteFlags.receiverName, "receiver", "", "Receiver payment name")
	quoteCmd.Flags().StringVar(&quoteFlags.text, "text", "", "Free-text intent (overrides structured flags)")
	quoteCmd.Flags().StringVar(&quoteFlags.action, "action", "transfer", "Intent action")
	quoteCmd.Flags().StringVar(&quoteFlags.fromToken, "from-token", "", "Source token symbol")
	quoteCmd.Flags().StringVar(&quoteFlags.toToken, "to-token", "", "Destination token symbol")
	quoteCmd.Flags().StringVar(&quoteFlags.amount, "amount", "", "Amount in token units")
	quoteCmd.Flags().StringVar(&quoteFlags.fromChain, "from-chain", "", "Source chain")
	quoteCmd.Flags().StringVar(&quoteFlags.toChain, "to-chain", "", "Destination chain")
	quoteCmd.Flags().StringVar(&quoteFlags.toAddress, "to", "", "Recipient address")
	_ = quoteCmd.MarkFlagRequired("payer")
}

func quoteRequestFromFlags() *types.QuoteRequest {
	req := &types.QuoteRequest{
		Payer:        quoteFlags.payer,
		ReceiverName: quoteFlags.receiverName,
	}
	if quoteFlags.text != "" {
		req.Text = quoteFlags.text
		return req
	}
	req.Intent = &routing.ParsedIntent{
		Action:    routing.Action(quoteFlags.action),
		FromToken: quoteFlags.fromToken,
		ToToken:   quoteFlags.toToken,
		Amount:    quoteFlags.amount,
		FromChain: quoteFlags.fromChain,
		ToChain:   quoteFlags.toChain,
		ToAddress: quoteFlags.toAddress,
	}
	return req
}

func runQuote(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	client := httpclient.NewHTTPClient(httpclient.WithBaseURL(apiBaseURL()))

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching route candidates..."
		s.Start()
	}

	resp, err := client.Post(context.Background(), "/api/v1/quotes", quoteRequestFromFlags())
	var result types.QuoteResponse
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
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return
	}

	printHeading("\n%d route candidate(s)\n", len(result.Routes))
	for i, route := range result.Routes {
		if route.IsError() {
			color.Red("%d. provider %s failed: %s", i+1, route.Provider, route.PathDescription)
			continue
		}
		fmt.Printf("%d. %s\n", i+1, color.New(color.Bold).Sprint(route.ID))
		printKV("path", route.PathDescription)
		printKV("provider", route.Provider)
		printKV("type", string(route.RouteType))
		printKV("fee", route.FeeEstimate)
		printKV("time", route.TimeEstimate)
	}

	printHeading("\nEconomics")
	printKV("monthly volume", "$"+result.Economics.MonthlyVolumeUSD.StringFixed(2))
	printKV("fee tier", fmt.Sprintf("%d bps", result.Economics.FeeBps))
	printKV("fee", "$"+result.Economics.FeeUSD.StringFixed(2))
	if result.Economics.Referred {
		printKV("referrer share", "$"+result.Economics.ReferrerShareUSD.StringFixed(2))
	}
	fmt.Println()
}
