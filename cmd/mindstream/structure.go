package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/ai/parser"
	"github.com/feiaaa1/mindstream/internal/ai/prompt"
	"github.com/feiaaa1/mindstream/internal/catalog"
	"github.com/feiaaa1/mindstream/internal/config"
	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/domain/provider"
	"github.com/feiaaa1/mindstream/internal/domain/service"
	"github.com/feiaaa1/mindstream/internal/infrastructure/llm"
)

func structureCmd() *cobra.Command {
	var (
		providerID  string
		modelID     string
		apiKey      string
		materialize bool
	)

	cmd := &cobra.Command{
		Use:   "structure [text]",
		Short: "Send a brain-dump to a text provider and print the task payload",
		Long: `Structure free-form text into tasks with one provider call.

The API key falls back to MINDSTREAM_API_KEY.

Examples:
  mindstream structure "buy milk and call mom tomorrow" --provider deepseek --model deepseek-chat
  mindstream structure "plan the offsite" --provider ollama --model mistral --materialize`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			defer func() { _ = cfg.Logger.Sync() }()

			registry, err := catalog.Default()
			if err != nil {
				return err
			}

			if apiKey == "" {
				apiKey = os.Getenv("MINDSTREAM_API_KEY")
			}
			gen, err := selectGenerator(registry, llm.NewFactory(cfg.AI, cfg.Logger), providerID, modelID, apiKey)
			if err != nil {
				return err
			}

			messages, err := prompt.NewBuilder().Build(args[0])
			if err != nil {
				return err
			}

			raw, err := gen.Generate(context.Background(), provider.GenerateRequest{
				Model:        modelID,
				APIKey:       strings.TrimSpace(apiKey),
				SystemPrompt: messages.System,
				Prompt:       messages.User,
			})
			if err != nil {
				cfg.Logger.Debug("Generation failed", zap.String("provider_id", providerID), zap.Error(err))
				return err
			}

			payload, err := parser.NewTaskParser().Parse(raw)
			if err != nil {
				return err
			}

			if materialize {
				return writeJSON(cmd.OutOrStdout(), service.NewTaskMaterializer().Materialize(payload))
			}
			return writeJSON(cmd.OutOrStdout(), payload)
		},
	}

	cmd.Flags().StringVarP(&providerID, "provider", "p", "deepseek", "text provider id")
	cmd.Flags().StringVarP(&modelID, "model", "m", "deepseek-chat", "text model id")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "provider API key")
	cmd.Flags().BoolVar(&materialize, "materialize", false, "print materialized tasks instead of the raw payload")

	return cmd
}

// selectGenerator applies the same checks as the server, in the same order.
func selectGenerator(registry *catalog.Registry, factory provider.TextGeneratorFactory, providerID, modelID, apiKey string) (provider.TextGenerator, error) {
	p, _, err := registry.Resolve(providerID, modelID, entity.ModelTypeText)
	if err != nil {
		return nil, err
	}

	gen, err := factory.TextGenerator(providerID)
	if err != nil {
		return nil, err
	}
	if p.APIKeyRequired && strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w (pass --api-key or set MINDSTREAM_API_KEY)",
			&domainErrors.MissingCredentialError{ProviderID: providerID})
	}
	return gen, nil
}
