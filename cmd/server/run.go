package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sakif/code-editor/internal/advisor"
	"github.com/sakif/code-editor/internal/executor"
	"github.com/sakif/code-editor/internal/metrics"
	"github.com/sakif/code-editor/internal/model"
	"github.com/sakif/code-editor/internal/service"
)

var (
	errorText = color.New(color.FgRed).SprintFunc()
	dimText   = color.New(color.FgHiBlack).SprintFunc()
	boldText  = color.New(color.Bold).SprintFunc()
)

func newRunCmd(a *app) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "run [file|-]",
		Short: "Execute a file (or stdin) and print its output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := newLogger(a.cfg.Log, cmd.ErrOrStderr())
			runner, closeRunner := newRunner(a.cfg, logger)
			defer closeRunner()

			svc := service.NewExecutionService(runner, metrics.Nop{}, logger)
			res, err := svc.Execute(ctx, source, language)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", model.JavaScript, "language of the source")
	return cmd
}

// printResult writes events the way the editor's output panel shows them.
func printResult(w io.Writer, res *executor.ExecutionResult) {
	for _, ev := range res.Events {
		switch ev.Kind {
		case executor.KindError:
			fmt.Fprintln(w, errorText("Error: "+ev.Text))
		default:
			fmt.Fprintln(w, ev.Text)
		}
	}
	fmt.Fprintln(w, dimText(fmt.Sprintf("Execution time: %.2fms", res.ElapsedMs)))
}

func newAdviseCmd(a *app) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:       "advise <action> [file|-]",
		Short:     "Print the advisory response for an AI action",
		Long:      "Actions: suggest, improve, explain, refactor. Any other action gets the generic response.",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"suggest", "improve", "explain", "refactor"},
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[1:])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := newLogger(a.cfg.Log, cmd.ErrOrStderr())
			svc := service.NewAdvisoryService(advisor.Canned{}, a.cfg.Advisor.Delay, metrics.Nop{}, logger)

			advice, err := svc.Respond(ctx, source, advisor.Action(args[0]), language)
			if err != nil {
				return err
			}
			printAdvice(cmd.OutOrStdout(), advice)
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", model.JavaScript, "language of the source")
	return cmd
}

func printAdvice(w io.Writer, advice *service.Advice) {
	fmt.Fprintln(w, boldText(advice.Title))
	fmt.Fprintln(w)
	fmt.Fprintln(w, advice.Text)
}
