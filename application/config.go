package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amp-labs/easyapply/envutil"
	"github.com/amp-labs/easyapply/questions"
	"github.com/amp-labs/easyapply/retry"
	"github.com/amp-labs/easyapply/statemachine"
	"github.com/amp-labs/easyapply/upload"
)

const defaultUploadAttempts = 3

// ErrInvalidPacing is returned when the pacing bounds are inverted.
var ErrInvalidPacing = errors.New("pacing minimum exceeds maximum")

// Config is the environment-driven configuration of a session.
type Config struct {
	ResumePath       string
	ClickTimeout     time.Duration
	PacingMin        time.Duration
	PacingMax        time.Duration
	InteractionDelay time.Duration
	UploadPauseMin   time.Duration
	UploadPauseMax   time.Duration
	MaxRecoveries    int
	MaxTicks         int
	QuestionsFile    string
	UploadHelper     string
	UploadAttempts   int
}

// LoadConfigFromEnv reads the EASYAPPLY_* environment variables.
func LoadConfigFromEnv(ctx context.Context) (*Config, error) {
	var (
		cfg  Config
		errs []error
	)

	read := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error

	cfg.ResumePath, err = envutil.FilePath(ctx, "EASYAPPLY_RESUME_PATH", envutil.Default("")).Value()
	read(err)

	cfg.ClickTimeout, err = envutil.Duration(ctx, "EASYAPPLY_CLICK_TIMEOUT",
		envutil.Default(defaultClickTimeout),
		envutil.Validate(envutil.NonNegative[time.Duration])).Value()
	read(err)

	cfg.PacingMin, err = envutil.Duration(ctx, "EASYAPPLY_PACING_MIN",
		envutil.Default(statemachine.DefaultPacer.Min),
		envutil.Validate(envutil.NonNegative[time.Duration])).Value()
	read(err)

	cfg.PacingMax, err = envutil.Duration(ctx, "EASYAPPLY_PACING_MAX",
		envutil.Default(statemachine.DefaultPacer.Max),
		envutil.Validate(envutil.NonNegative[time.Duration])).Value()
	read(err)

	cfg.InteractionDelay, err = envutil.Duration(ctx, "EASYAPPLY_INTERACTION_DELAY",
		envutil.Default(time.Second),
		envutil.Validate(envutil.NonNegative[time.Duration])).Value()
	read(err)

	cfg.UploadPauseMin, err = envutil.Duration(ctx, "EASYAPPLY_UPLOAD_PAUSE_MIN",
		envutil.Default(defaultUploadPacer.Min),
		envutil.Validate(envutil.NonNegative[time.Duration])).Value()
	read(err)

	cfg.UploadPauseMax, err = envutil.Duration(ctx, "EASYAPPLY_UPLOAD_PAUSE_MAX",
		envutil.Default(defaultUploadPacer.Max),
		envutil.Validate(envutil.NonNegative[time.Duration])).Value()
	read(err)

	cfg.MaxRecoveries, err = envutil.Int(ctx, "EASYAPPLY_MAX_RECOVERIES",
		envutil.Default(defaultMaxRecoveries),
		envutil.Validate(envutil.NonNegative[int])).Value()
	read(err)

	cfg.MaxTicks, err = envutil.Int(ctx, "EASYAPPLY_MAX_TICKS",
		envutil.Default(defaultMaxTicks),
		envutil.Validate(envutil.NonNegative[int])).Value()
	read(err)

	cfg.QuestionsFile, err = envutil.FilePath(ctx, "EASYAPPLY_QUESTIONS_FILE", envutil.Default("")).Value()
	read(err)

	cfg.UploadHelper, err = envutil.String(ctx, "EASYAPPLY_UPLOAD_HELPER", envutil.Default("")).Value()
	read(err)

	cfg.UploadAttempts, err = envutil.Int(ctx, "EASYAPPLY_UPLOAD_ATTEMPTS",
		envutil.Default(defaultUploadAttempts),
		envutil.Validate(envutil.Positive[int])).Value()
	read(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if cfg.PacingMin > cfg.PacingMax {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidPacing, cfg.PacingMin, cfg.PacingMax)
	}

	if cfg.UploadPauseMin > cfg.UploadPauseMax {
		return nil, fmt.Errorf("%w: upload %s > %s", ErrInvalidPacing, cfg.UploadPauseMin, cfg.UploadPauseMax)
	}

	return &cfg, nil
}

// Options converts the configuration into session options. The question rules file
// and the upload helper are loaded here.
func (c *Config) Options() ([]Option, error) {
	opts := []Option{
		WithResumePath(c.ResumePath),
		WithClickTimeout(c.ClickTimeout),
		WithPacer(statemachine.UniformPacer{Min: c.PacingMin, Max: c.PacingMax}),
		WithInteractionPacer(statemachine.Fixed(c.InteractionDelay)),
		WithUploadPacer(statemachine.UniformPacer{Min: c.UploadPauseMin, Max: c.UploadPauseMax}),
		WithMaxRecoveries(c.MaxRecoveries),
		WithMaxTicks(c.MaxTicks),
	}

	if c.QuestionsFile != "" {
		rules, err := questions.LoadRules(c.QuestionsFile)
		if err != nil {
			return nil, err
		}

		opts = append(opts, WithAnswerer(questions.NewMatcher(rules...)))
	}

	if c.UploadHelper != "" {
		helper, err := upload.NewCommand(c.UploadHelper)
		if err != nil {
			return nil, err
		}

		opts = append(opts, WithDeliverer(upload.Retrying(helper,
			retry.WithAttempts(retry.Attempts(c.UploadAttempts)))))
	}

	return opts, nil
}
