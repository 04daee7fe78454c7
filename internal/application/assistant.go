package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"homecmd/internal/domain"
	"homecmd/internal/resolve"
)

// BadParseMessage is spoken for every sub-command that cannot be turned into
// a published command.
const BadParseMessage = "Oops. I couldn't understand that."

// Priority is the routing priority reported to the host.
const Priority = 1

// Keywords returns the words the host uses to route input to this module.
func Keywords() []string {
	words := make([]string, len(domain.Intents))
	for i, in := range domain.Intents {
		words[i] = string(in)
	}
	return words
}

type Options struct {
	// TopicRoot prefixes every topic; it should end with "/".
	TopicRoot string
	// StatusQuery enables the legacy mode that waits for one status reply on
	// "<topic>/status" after each publish. The publisher must implement
	// StatusPublisher.
	StatusQuery bool
}

// Result reports what happened to one sub-command.
type Result struct {
	Outcome resolve.Outcome
	Topic   string
	Payload string
	// Status is the reply received in status-query mode.
	Status string
	Err    error
}

type Assistant struct {
	source    InputSource
	resolver  *resolve.Resolver
	publisher Publisher
	notifier  Notifier
	opts      Options
	logger    *zap.Logger
}

func NewAssistant(
	source InputSource,
	resolver *resolve.Resolver,
	publisher Publisher,
	notifier Notifier,
	opts Options,
	logger *zap.Logger,
) *Assistant {
	if opts.TopicRoot == "" {
		opts.TopicRoot = domain.DefaultTopicRoot
	}
	if notifier == nil {
		notifier = &NoopNotifier{}
	}
	return &Assistant{
		source:    source,
		resolver:  resolver,
		publisher: publisher,
		notifier:  notifier,
		opts:      opts,
		logger:    logger,
	}
}

func (a *Assistant) Run(ctx context.Context) error {
	a.logger.Info("starting input source", zap.String("source", a.source.Name()))
	if err := a.source.Start(ctx); err != nil {
		return fmt.Errorf("starting input source: %w", err)
	}
	defer a.source.Stop()

	a.logger.Info("assistant ready, waiting for commands")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		in, err := a.source.NextInput(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, ErrSourceClosed) {
				return nil
			}
			a.logger.Error("reading input", zap.Error(err))
			continue
		}

		if !a.IsRelevant(in) {
			a.logger.Info("ignoring input without home-automation keywords", zap.Any("input", in))
			continue
		}

		a.Handle(ctx, in)
	}
}

// IsRelevant reports whether the input mentions a known keyword or intent.
func (a *Assistant) IsRelevant(in domain.Input) bool {
	return a.resolver.Relevant(in)
}

// Handle resolves the input and publishes every command it yields, in order.
// Each sub-command gets exactly one phrase on the notifier: its confirmation
// or BadParseMessage. Handle never fails; the returned results carry the
// per-command errors.
func (a *Assistant) Handle(ctx context.Context, in domain.Input) []Result {
	if tagged, ok := in.(domain.TaggedIntent); ok {
		a.logger.Debug("handling tagged intent", zap.Any("tree", tagged.Tree))
	}

	var results []Result
	for out := range a.resolver.Resolve(in) {
		results = append(results, a.dispatch(ctx, out))
	}
	return results
}

func (a *Assistant) dispatch(ctx context.Context, out resolve.Outcome) Result {
	res := Result{Outcome: out}

	if out.Err != nil {
		a.logger.Info("could not resolve command", zap.String("text", out.Source), zap.Error(out.Err))
		res.Err = out.Err
		a.say(ctx, BadParseMessage)
		return res
	}

	res.Topic = out.Command.Topic(a.opts.TopicRoot)
	res.Payload = out.Command.Payload()
	a.logger.Debug("publishing", zap.String("topic", res.Topic), zap.String("payload", res.Payload))

	status, err := a.publish(ctx, res.Topic, res.Payload)
	switch {
	case errors.Is(err, ErrStatusTimeout):
		a.logger.Warn("no status reply", zap.String("topic", res.Topic))
	case err != nil:
		a.logger.Error("publishing command", zap.String("topic", res.Topic), zap.Error(err))
		res.Err = err
		a.say(ctx, BadParseMessage)
		return res
	}

	a.say(ctx, out.Command.Phrase())
	if status != "" {
		res.Status = status
		a.say(ctx, out.Command.Subject()+" is "+status)
	}
	return res
}

func (a *Assistant) publish(ctx context.Context, topic, payload string) (string, error) {
	if a.opts.StatusQuery {
		if sp, ok := a.publisher.(StatusPublisher); ok {
			return sp.PublishAwaitStatus(ctx, topic, payload, topic+"/status")
		}
		a.logger.Warn("status query enabled but publisher cannot subscribe")
	}
	return "", a.publisher.Publish(ctx, topic, payload)
}

func (a *Assistant) say(ctx context.Context, phrase string) {
	if err := a.notifier.Notify(ctx, phrase); err != nil {
		a.logger.Error("delivering phrase", zap.String("phrase", phrase), zap.Error(err))
	}
}
