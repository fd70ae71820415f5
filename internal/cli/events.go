package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kgo"

	"lifepath/internal/platform/kafka"
	audit "lifepath/pkg/platform/audit"
	"lifepath/pkg/platform/audit/consumer"
	strutil "lifepath/pkg/platform/strings"
)

type eventsOptions struct {
	brokers       []string
	topic         string
	categories    []string
	fromBeginning bool
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &eventsOptions{}
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail audit events from Kafka as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(cmd, rootOpts, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.brokers, "brokers", nil, "seed brokers (default KAFKA_BROKERS)")
	cmd.Flags().StringVar(&opts.topic, "topic", "", "topic to read (default KAFKA_TOPIC)")
	cmd.Flags().StringSliceVar(&opts.categories, "category", nil, "only print these categories: operations, security, billing")
	cmd.Flags().BoolVar(&opts.fromBeginning, "from-beginning", false, "start from the oldest retained event")
	return cmd
}

func runEvents(cmd *cobra.Command, rootOpts *RootOptions, opts *eventsOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(opts.brokers) > 0 {
		cfg.Kafka.Brokers = opts.brokers
	}
	cfg.Kafka.Brokers = strutil.Dedupe(cfg.Kafka.Brokers, false)
	if len(cfg.Kafka.Brokers) == 0 {
		return usageError("no brokers: set KAFKA_BROKERS or --brokers", nil)
	}
	if opts.topic != "" {
		cfg.Kafka.Topic = opts.topic
	}
	handler, err := eventPrinter(cmd.OutOrStdout(), opts.categories)
	if err != nil {
		return err
	}
	logger := rootOpts.logger(cmd, cfg.Log)

	offset := kgo.NewOffset().AtEnd()
	if opts.fromBeginning {
		offset = kgo.NewOffset().AtStart()
	}
	client, err := kafka.NewClient(cfg.Kafka,
		kgo.ConsumeTopics(cfg.Kafka.Topic),
		kgo.ConsumeResetOffset(offset),
	)
	if err != nil {
		return failure("connect to kafka", err)
	}
	defer client.Close()

	router := consumer.NewRouter(logger, handler.fallback)
	for _, category := range handler.categories {
		router.Register(category, handler.print)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	err = consumer.New(client, router, logger).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return failure("consume events", err)
	}
	return nil
}

type printer struct {
	categories []audit.EventCategory
	print      consumer.HandlerFunc
	fallback   consumer.Handler
}

// eventPrinter writes one JSON line per event. With no category filter every
// event goes through the fallback; otherwise only the named categories print.
func eventPrinter(w io.Writer, categories []string) (*printer, error) {
	var mu sync.Mutex
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	p := &printer{
		print: func(_ context.Context, event audit.Event) error {
			mu.Lock()
			defer mu.Unlock()
			return enc.Encode(event)
		},
	}
	if len(categories) == 0 {
		p.fallback = p.print
		return p, nil
	}
	for _, c := range strutil.Dedupe(categories, true) {
		category := audit.EventCategory(c)
		switch category {
		case audit.CategoryOperations, audit.CategorySecurity, audit.CategoryBilling:
			p.categories = append(p.categories, category)
		default:
			return nil, usageError(fmt.Sprintf("unknown category %q", c), nil)
		}
	}
	return p, nil
}
