package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	xgxcontext "github.com/xgx-io/xgx-context"
	"github.com/xgx-io/xgx-context/slogctx"
)

var errOrderNotFound = errors.New("order not found")

func newDemoCmd(root *rootOptions) *cobra.Command {
	var (
		orderID int
		known   []string
		dump    bool
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a layered failure and report its Context",
		Long: `demo records values in a service and a repository layer, fails in the
repository and reports the resulting Context through slog. With --dump the
Context is also printed in full.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger, err := root.logger(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			s := xgxcontext.NewSession(cfg, xgxcontext.WithObserver(slogctx.NewObserver(logger)))
			defer s.End()
			s.TraceIdentifier(s.ID(), "session_id")

			c, err := s.Call(func() error { return demoService(s, orderID) }, known...)
			if c == nil {
				// Either nothing failed or the Context could not be built.
				return err
			}

			slogctx.Report(cmd.Context(), logger, c)
			if dump {
				fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", c)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&orderID, "order", 7, "order id the demo fails to load")
	cmd.Flags().StringSliceVar(&known, "known", nil, "known-issue tags for the failing call")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the full Context")
	return cmd
}

//go:noinline
func demoService(s *xgxcontext.Session, orderID int) error {
	_ = s.Add("order", orderID)
	return demoRepository(s, orderID)
}

//go:noinline
func demoRepository(s *xgxcontext.Session, orderID int) error {
	_ = s.Add("query", "SELECT * FROM orders WHERE id = ?")
	return xgxcontext.Wrap(errOrderNotFound, "loading order", "order_id", orderID)
}
