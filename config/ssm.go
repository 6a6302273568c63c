package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ResolveSecrets fills GitHub.Token from AWS SSM Parameter Store when
// GitHub.TokenParameter is set. An explicit token always wins.
func (cfg *Config) ResolveSecrets(ctx context.Context) error {
	if cfg.GitHub.Token != "" || cfg.GitHub.TokenParameter == "" {
		return nil
	}

	token, err := getParameterStoreValue(ctx, cfg.GitHub.TokenParameter, true)
	if err != nil {
		return fmt.Errorf("resolve github token: %w", err)
	}
	cfg.GitHub.Token = token
	return nil
}

func getParameterStoreValue(ctx context.Context, parameterName string, decrypt bool) (string, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctxWithTimeout)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(awsCfg)

	input := &ssm.GetParameterInput{
		Name:           &parameterName,
		WithDecryption: &decrypt,
	}

	result, err := client.GetParameter(ctxWithTimeout, input)
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", parameterName, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil || *result.Parameter.Value == "" {
		return "", errors.New("parameter " + parameterName + " is empty")
	}

	return *result.Parameter.Value, nil
}
