package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

var errInvalidStage = errors.New("unknown stage")

// globalOptions are shared by every subcommand.
type globalOptions struct {
	nodes    []string
	logLevel string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "tripctl",
		Short:         "Drive the trip planner message flow from the command line",
		Long:          "tripctl sends plan requests, publishes stage reports and watches finished jobs on the trip planner broker.",
		Version:       fmt.Sprintf("%s (commit: %s)", version, gitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringSliceVarP(&opts.nodes, "nodes", "n", nil, "Broker nodes (host:port), overrides RABBITMQ_NODES")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	rootCmd.AddCommand(
		newSendPlanCommand(opts),
		newReportCommand(opts),
		newWatchCommand(opts),
	)

	return rootCmd
}

func newSendPlanCommand(opts *globalOptions) *cobra.Command {
	var msg domain.PlanTrip

	cmd := &cobra.Command{
		Use:   "send-plan",
		Short: "Send a plan request to the route planner work queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if msg.JobID == uuid.Nil {
				msg.JobID = uuid.New()
			}

			msg.RequestedAt = time.Now().UTC()

			client, err := newClient[domain.PlanTrip](opts, "")
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Send(cmd.Context(), msg); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), msg)
		},
	}

	cmd.Flags().StringVar(&msg.Origin, "origin", "", "Trip origin")
	cmd.Flags().StringVar(&msg.Destination, "destination", "", "Trip destination")
	cmd.Flags().StringVar(&msg.Email, "email", "", "Recipient of the itinerary")
	cmd.Flags().Var(uuidValue{&msg.JobID}, "job-id", "Job ID, generated when empty")

	_ = cmd.MarkFlagRequired("origin")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newReportCommand(opts *globalOptions) *cobra.Command {
	var (
		failed bool
		detail string
	)

	cmd := &cobra.Command{
		Use:   "report <job-id> <stage>",
		Short: "Publish a stage report as a pipeline stage would",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := parseReport(args[0], args[1], !failed, detail)
			if err != nil {
				return err
			}

			client, err := newClient[domain.JobStageReported](opts, "")
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Publish(cmd.Context(), msg); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), msg)
		},
	}

	cmd.Flags().BoolVar(&failed, "failed", false, "Report the stage as failed")
	cmd.Flags().StringVar(&detail, "detail", "", "Free text attached to the report")

	return cmd
}

func newWatchCommand(opts *globalOptions) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print finished jobs as they are published",
		Long:  "Without --group the subscription is transient and disappears with the process.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := newClient[domain.TripJobFinished](opts, group)
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()

			err = client.StartSubscribing(ctx, group == "", func(_ context.Context, msg domain.TripJobFinished) (bool, error) {
				return true, printJSON(out, msg)
			})
			if err != nil {
				return err
			}

			select {
			case <-ctx.Done():
			case <-client.Done():
				return errors.New("subscription ended unexpectedly")
			}

			return client.Stop()
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Durable subscriber group")

	return cmd
}

func newClient[T any](opts *globalOptions, group string) (*queue.Client[T], error) {
	cfg, err := config.Init()
	if err != nil {
		return nil, fmt.Errorf("unable to load configuration: %w", err)
	}

	if len(opts.nodes) != 0 {
		cfg.Queue.Nodes = opts.nodes
	}

	logger := infrastructure.New(config.LoggingConfig{Level: opts.logLevel, Format: "console"})

	return infrastructure.NewQueueClient[T](
		cfg.Queue,
		infrastructure.QueueClientSpec{Group: group},
		logger,
		&infrastructure.NoOpMetrics{},
	)
}

func parseReport(rawJobID, rawStage string, succeeded bool, detail string) (domain.JobStageReported, error) {
	jobID, err := uuid.Parse(rawJobID)
	if err != nil {
		return domain.JobStageReported{}, fmt.Errorf("invalid job id %q: %w", rawJobID, err)
	}

	stage := domain.Stage(strings.ToLower(strings.TrimSpace(rawStage)))
	if !stage.Valid() {
		return domain.JobStageReported{}, fmt.Errorf("%w %q", errInvalidStage, rawStage)
	}

	return domain.JobStageReported{
		JobID:      jobID,
		Stage:      stage,
		Succeeded:  succeeded,
		Detail:     detail,
		ReportedAt: time.Now().UTC(),
	}, nil
}

func printJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// uuidValue lets a uuid.UUID be bound as a pflag value.
type uuidValue struct {
	id *uuid.UUID
}

func (v uuidValue) String() string {
	if v.id == nil || *v.id == uuid.Nil {
		return ""
	}

	return v.id.String()
}

func (v uuidValue) Set(raw string) error {
	id, err := uuid.Parse(raw)
	if err != nil {
		return err
	}

	*v.id = id

	return nil
}

func (uuidValue) Type() string {
	return "uuid"
}
