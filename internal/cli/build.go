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

var buildFlags struct {
	routeID      string
	payer        string
	receiverName string
	action       string
	fromToken    string
	toToken      string
	amount       string
	fromChain    string
	toChain      string
	toAddress    string
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the signable transaction for a chosen route",
	Run:   runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildFlags.routeID, "route-id", "", "Route ID from a prior quote (required)")
	buildCmd.Flags().StringVar(&buildFlags.payer, "payer", "", "Payer address (required)")
	buildCmd.Flags().StringVar(&buildFlags.receiverName, "receiver", "", "Receiver payment name")
	buildCmd.Flags().StringVar(&buildFlags.action, "action", "transfer", "Intent action")
	buildCmd.Flags().StringVar(&buildFlags.fromToken, "from-token", "", "Source token symbol")
	buildCmd.Flags().StringVar(&buildFlags.toToken, "to-token", "", "Destination token symbol")
	buildCmd.Flags().StringVar(&buildFlags.amount, "amount", "", "Amount in token units")
	buildCmd.Flags().StringVar(&buildFlags.fromChain, "from-chain", "", "Source chain")
	buildCmd.Flags().StringVar(&buildFlags.toChain, "to-chain", "", "Destination chain")
	buildCmd.Flags().StringVar(&buildFlags.toAddress, "to", "", "Recipient address")
	_ = buildCmd.MarkFlagRequired("route-id")
	_ = buildCmd.MarkFlagRequired("payer")
}

func runBuild(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	req := &types.BuildTransactionRequest{
		RouteID:      buildFlags.routeID,
		Payer:        buildFlags.payer,
		ReceiverName: buildFlags.receiverName,
		Intent: &routing.ParsedIntent{
			Action:    routing.Action(buildFlags.action),
			FromToken: buildFlags.fromToken,
			ToToken:   buildFlags.toToken,
			Amount:    buildFlags.amount,
			FromChain: buildFlags.fromChain,
			ToChain:   buildFlags.toChain,
			ToAddress: buildFlags.toAddress,
		},
	}

	client := httpclient.NewHTTPClient(httpclient.WithBaseURL(apiBaseURL()))

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Building transaction..."
		s.Start()
	}

	resp, err := client.Post(context.Background(), "/api/v1/transactions", req)
	var result types.BuildTransactionResponse
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

	tx := result.Transaction
	if result.ApprovalRequired {
		color.Yellow("\nApproval step required. Sign and submit this transaction,")
		color.Yellow("then run the same build command again for the next step.")
	} else {
		printHeading("\nTransaction ready to sign")
	}
	printKV("to", tx.To)
	printKV("chain id", fmt.Sprintf("%d", tx.ChainID))
	printKV("value", tx.Value)
	if tx.GasLimit != "" {
		printKV("gas limit", tx.GasLimit)
	}
	printKV("provider", tx.Provider)
	printKV("type", string(tx.RouteType))
	printKV("data", tx.Data)
	fmt.Println()
}
