package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledgerd/core"
)

func main() {
	rootCmd := &cobra.Command{Use: "ledgerd"}
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(ammCmd())
	rootCmd.AddCommand(bridgeCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// store is a process-lifetime in-memory store for the CLI's demo commands.
// A real deployment would back Store with a persistent engine (badger,
// bbolt, ...) instead; this core never assumes a package-level singleton
// (§9), so main owns the only *core.Store and threads it explicitly.
var store = core.NewStore()

func parseAddr(s string) (core.Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 20 {
		return core.Address{}, fmt.Errorf("invalid address %q", s)
	}
	var a core.Address
	copy(a[:], b)
	return a, nil
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "token"}

	balance := &cobra.Command{
		Use:   "balance [address] [token]",
		Short: "print an address's balance of a token",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			addr, err := parseAddr(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			token, err := parseAddr(args[1])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Println(store.BalanceOf(addr, token))
		},
	}

	mint := &cobra.Command{
		Use:   "mint [address] [token] [amount]",
		Short: "mint amount of token to address (demo/testing only)",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			addr, err := parseAddr(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			token, err := parseAddr(args[1])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			var amount uint64
			if _, err := fmt.Sscanf(args[2], "%d", &amount); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			store.Mint(addr, amount, token)
		},
	}

	cmd.AddCommand(balance, mint)
	return cmd
}

func ammCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "amm"}

	pool := &cobra.Command{
		Use:   "pool [token]",
		Short: "print a pool's reserves and liquidity providers",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			token, err := parseAddr(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			view := store.QueryAMMPool(token)
			fmt.Printf("token=%d usd=%d total_supply=%d providers=%d\n",
				view.PoolSupplyOfToken, view.PoolSupplyOfUSD, view.TotalSupply, len(view.LiquidityProviders))
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "print every token with a pool",
		Run: func(cmd *cobra.Command, args []string) {
			for _, token := range store.QueryListedPools() {
				fmt.Println(token.String())
			}
		},
	}

	cmd.AddCommand(pool, list)
	return cmd
}

func bridgeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "bridge"}

	status := &cobra.Command{
		Use:   "status",
		Short: "print the bridge's cursors and pending withdrawal count",
		Run: func(cmd *cobra.Command, args []string) {
			view := store.QueryBridge()
			fmt.Printf("ethereum_block=%d polygon_block=%d withdrawal_id_counter=%d pending=%d\n",
				view.EthereumBlockNumber, view.PolygonBlockNumber, view.WithdrawalIDCounter, len(view.PendingWithdrawals))
		},
	}

	cmd.AddCommand(status)
	return cmd
}
