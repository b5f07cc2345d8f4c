package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SSMPrefix marks a value that lives in AWS Systems Manager Parameter Store.
const SSMPrefix = "ssm:"

// ParameterGetter is the subset of the SSM client used here.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewSSMClient builds a client from the default AWS credential chain.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// secrets lists every field that may carry an ssm: reference.
func (c *Config) secrets() []*string {
	return []*string{
		&c.Quote.APIKey,
		&c.News.APIKey,
		&c.Messaging.Twilio.AccountSID,
		&c.Messaging.Twilio.AuthToken,
		&c.Messaging.Twilio.FromNumber,
		&c.Messaging.Telegram.BotToken,
		&c.Messaging.Telegram.ChatID,
		&c.Database.PostgresDSN,
	}
}

// NeedsSSM reports whether any secret is an ssm: reference.
func (c *Config) NeedsSSM() bool {
	for _, s := range c.secrets() {
		if strings.HasPrefix(*s, SSMPrefix) {
			return true
		}
	}
	return false
}

// ResolveSecrets replaces every ssm:/path value with the decrypted parameter.
func (c *Config) ResolveSecrets(ctx context.Context, client ParameterGetter) error {
	for _, s := range c.secrets() {
		if !strings.HasPrefix(*s, SSMPrefix) {
			continue
		}
		name := strings.TrimPrefix(*s, SSMPrefix)
		v, err := getParameterStoreValue(ctx, client, name)
		if err != nil {
			return err
		}
		*s = v
	}
	return nil
}

func getParameterStoreValue(ctx context.Context, client ParameterGetter, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	decrypt := true
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: &decrypt,
	})
	if err != nil {
		return "", fmt.Errorf("ssm parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("ssm parameter %s has no value", name)
	}
	return *out.Parameter.Value, nil
}
