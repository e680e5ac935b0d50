package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/internal/webhook"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/gin-gonic/gin"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NewWebhooksCommand creates the webhooks command group.
func NewWebhooksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "webhooks",
		Aliases: []string{"webhook"},
		Short:   "Manage webhooks",
		Long:    "Inspect webhooks and their delivery log, or run a local webhook receiver",
	}

	cmd.AddCommand(newWebhooksListCommand())
	cmd.AddCommand(newWebhooksGetCommand())
	cmd.AddCommand(newWebhooksCallsCommand())
	cmd.AddCommand(newWebhooksServeCommand())

	return cmd
}

func newWebhooksListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			webhooks, err := client.Webhooks().List(context.Background(), nil)
			if err != nil {
				return fmt.Errorf("failed to list webhooks: %w", err)
			}

			return outputResult(webhooks.Data, renderWebhooksTable)
		},
	}
}

func webhookTriggers(hook *dato.Webhook) string {
	triggers := make([]string, 0, len(hook.Events))

	for _, event := range hook.Events {
		triggers = append(triggers, event.EntityType+":"+strings.Join(event.EventTypes, "|"))
	}

	return strings.Join(triggers, ", ")
}

func renderWebhooksTable(webhooks []dato.Webhook) error {
	if len(webhooks) == 0 {
		_, _ = os.Stdout.WriteString("No webhooks found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "URL", "Enabled", "Events")

	for i := range webhooks {
		hook := &webhooks[i]
		_ = table.Append(hook.ID, hook.Name, hook.URL, formatBool(hook.Enabled), webhookTriggers(hook))
	}

	_ = table.Render()

	return nil
}

func newWebhooksGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			hook, err := client.Webhooks().Find(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get webhook: %w", err)
			}

			return outputResult(hook, renderWebhookTable)
		},
	}
}

func renderWebhookTable(hook *dato.Webhook) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", hook.ID)
	_ = table.Append("Name", hook.Name)
	_ = table.Append("URL", hook.URL)
	_ = table.Append("Enabled", formatBool(hook.Enabled))
	_ = table.Append("Events", webhookTriggers(hook))
	_ = table.Append("Payload API Version", valueOrNA(hook.PayloadAPIVersion))
	_ = table.Append("Auto Retry", formatBool(hook.AutoRetry))
	_ = table.Append("Basic Auth User", stringPtrOrNA(hook.HTTPBasicUser))

	_ = table.Render()

	return nil
}

func newWebhooksCallsCommand() *cobra.Command {
	var (
		webhookID string
		limit     int
		resend    string
	)

	cmd := &cobra.Command{
		Use:   "calls",
		Short: "Show the webhook delivery log",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if resend != "" {
				err = client.WebhookCalls().Resend(ctx, resend)
				if err != nil {
					return fmt.Errorf("failed to resend webhook call: %w", err)
				}

				_, _ = fmt.Fprintf(os.Stdout, "Resent webhook call %s\n", resend)

				return nil
			}

			params := dato.NewQueryParams().WithLimit(limit).WithOrderBy("-created_at")
			if webhookID != "" {
				params.WithFilter("webhook_id", webhookID)
			}

			calls, err := client.WebhookCalls().List(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to list webhook calls: %w", err)
			}

			return outputResult(calls.Data, renderWebhookCallsTable)
		},
	}

	cmd.Flags().StringVar(&webhookID, "webhook", "", "only calls of this webhook")
	cmd.Flags().IntVar(&limit, "limit", constants.DefaultPageSize, "calls to show")
	cmd.Flags().StringVar(&resend, "resend", "", "resend the call with this ID")

	return cmd
}

func renderWebhookCallsTable(calls []dato.WebhookCall) error {
	if len(calls) == 0 {
		_, _ = os.Stdout.WriteString("No webhook calls found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Webhook", "Entity", "Event", "Status", "Created", "Next Retry")

	for _, call := range calls {
		status := constants.NotAvailable
		if call.ResponseStatus != nil {
			status = fmt.Sprint(*call.ResponseStatus)
		}

		_ = table.Append(call.ID, call.Webhook.ID, call.EntityType, call.EventType, status,
			formatTime(call.CreatedAt), formatTimePtr(call.NextRetryAt))
	}

	_ = table.Render()

	return nil
}

type serveOptions struct {
	addr            string
	path            string
	username        string
	password        string
	requiredHeaders []string
	natsURL         string
	natsPrefix      string
	kafkaBrokers    []string
	kafkaTopic      string
	noLog           bool
}

func newWebhooksServeCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a webhook receiver",
		Long: `Receive DatoCMS webhook calls over HTTP and forward every event to the
configured sinks: the log, a NATS subject tree and/or a Kafka topic.

  dato webhooks serve --addr :8080 --user dato --password s3cret \
    --nats-url nats://localhost:4222 --kafka-brokers localhost:9092 --kafka-topic datocms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWebhooksServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", constants.DefaultWebhookAddr, "listen address")
	cmd.Flags().StringVar(&opts.path, "path", constants.DefaultWebhookPath, "receiver route")
	cmd.Flags().StringVar(&opts.username, "user", "", "HTTP basic auth user")
	cmd.Flags().StringVar(&opts.password, "password", "", "HTTP basic auth password")
	cmd.Flags().StringArrayVar(&opts.requiredHeaders, "require-header", nil, "required header NAME=VALUE (repeatable)")
	cmd.Flags().StringVar(&opts.natsURL, "nats-url", "", "publish events to this NATS server")
	cmd.Flags().StringVar(&opts.natsPrefix, "nats-subject-prefix", constants.DefaultWebhookSubjectPrefix, "NATS subject prefix")
	cmd.Flags().StringSliceVar(&opts.kafkaBrokers, "kafka-brokers", nil, "produce events to these Kafka brokers")
	cmd.Flags().StringVar(&opts.kafkaTopic, "kafka-topic", "", "Kafka topic")
	cmd.Flags().BoolVar(&opts.noLog, "no-log", false, "do not log received events")

	return cmd
}

func parseHeaderPairs(pairs []string) (map[string]string, error) {
	headers := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidFieldFlag, pair)
		}

		headers[strings.TrimSpace(name)] = value
	}

	return headers, nil
}

// buildSinks opens the sinks selected by opts. Sinks already opened are
// closed when a later one fails.
func buildSinks(opts serveOptions, log *zap.Logger) ([]webhook.Sink, error) {
	var sinks []webhook.Sink

	closeAll := func() {
		for _, sink := range sinks {
			_ = sink.Close()
		}
	}

	if !opts.noLog {
		sinks = append(sinks, webhook.NewLogSink(log))
	}

	if opts.natsURL != "" {
		sink, err := webhook.NewNATSSink(opts.natsURL, opts.natsPrefix)
		if err != nil {
			closeAll()

			return nil, err
		}

		sinks = append(sinks, sink)
	}

	if len(opts.kafkaBrokers) > 0 || opts.kafkaTopic != "" {
		sink, err := webhook.NewKafkaSink(opts.kafkaBrokers, opts.kafkaTopic)
		if err != nil {
			closeAll()

			return nil, err
		}

		sinks = append(sinks, sink)
	}

	if len(sinks) == 0 {
		return nil, constants.ErrNoSinksConfigured
	}

	return sinks, nil
}

func newServeLogger(verbose bool) *zap.Logger {
	logConfig := zap.NewProductionConfig()
	if verbose {
		logConfig.Level.SetLevel(zap.DebugLevel)
	}

	log, err := logConfig.Build()
	if err != nil {
		return zap.NewNop()
	}

	return log
}

func runWebhooksServe(opts serveOptions) error {
	headers, err := parseHeaderPairs(opts.requiredHeaders)
	if err != nil {
		return err
	}

	verbose := viper.GetBool("verbose")
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	log := newServeLogger(verbose)
	defer func() { _ = log.Sync() }()

	sinks, err := buildSinks(opts, log)
	if err != nil {
		return err
	}

	server := webhook.NewServer(&webhook.Config{
		Addr:            opts.addr,
		Path:            opts.path,
		Username:        opts.username,
		Password:        opts.password,
		RequiredHeaders: headers,
		Logger:          log,
	}, sinks...)

	defer func() {
		closeErr := server.Close()
		if closeErr != nil {
			log.Warn("closing sinks", zap.Error(closeErr))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinkNames := make([]string, 0, len(sinks))
	for _, sink := range sinks {
		sinkNames = append(sinkNames, sink.Name())
	}

	log.Info("webhook receiver starting",
		zap.String("addr", server.Addr()),
		zap.String("path", opts.path),
		zap.Strings("sinks", sinkNames))

	return server.Run(ctx)
}
