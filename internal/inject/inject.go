package inject

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/faizanTadvi/SIHP1/internal/config"
	"github.com/faizanTadvi/SIHP1/internal/handle"
	"github.com/faizanTadvi/SIHP1/internal/handler"
	"github.com/faizanTadvi/SIHP1/internal/log"
	"github.com/faizanTadvi/SIHP1/internal/model"
	"github.com/faizanTadvi/SIHP1/internal/param"
	"github.com/faizanTadvi/SIHP1/internal/prompt"
	"github.com/samber/do"
)

func Setup(ctx context.Context, cfg *config.Config) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.ProvideValue[*config.Config](injector, cfg)
	do.ProvideValue[*slog.Logger](injector, log)

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return awsconfig.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		awsCfg, err := do.Invoke[aws.Config](i)
		if err != nil {
			return nil, err
		}
		return ssm.NewFromConfig(awsCfg), nil
	})
	do.Provide[param.Fetcher](injector, param.NewParameterStoreFetcher)

	do.ProvideValue[prompt.Prompt](injector, prompt.New(cfg))
	do.Provide[*model.Handle](injector, func(i *do.Injector) (*model.Handle, error) {
		p := do.MustInvoke[prompt.Prompt](i)
		return model.Initialize(ctx, cfg.Model,
			func() (string, error) {
				return param.APIKey(ctx, cfg, func() (param.Fetcher, error) {
					return do.Invoke[param.Fetcher](i)
				})
			},
			func(key string) (model.Classifier, error) {
				return model.NewGeminiClassifier(ctx, key, cfg.Model, cfg.Timeout, p)
			},
		), nil
	})

	do.Provide[*handler.Handler](injector, handler.NewHandler)
	do.Provide[http.Handler](injector, handler.NewRouter)
	do.Provide[*handle.FunctionURLHandler](injector, handle.NewFunctionURLHandler)

	return injector
}
