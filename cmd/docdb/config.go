//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

package main

import (
	"context"
	"os"
	"strings"

	"github.com/fogfish/docdb/service/mdb"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// help text is wrapped at the column
const wrap = 50

func wrapString(text string) string {
	var lines []string
	var line strings.Builder

	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > wrap {
			lines = append(lines, line.String())
			line.Reset()
		}

		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(word)
	}

	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}

// initConfig reads configuration from env files and environment
func initConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("docdb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// setupStorageFlags adds database and collection flags with command defaults
func setupStorageFlags(cmd *cobra.Command, database, collection string) {
	key := "database"
	cmd.Flags().String(key, database, wrapString("Name of the database"))
	key = "collection"
	cmd.Flags().String(key, collection, wrapString("Name of the collection"))
}

// bindFlags binds flags of command to viper
func bindFlags(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return viper.BindPFlags(cmd.InheritedFlags())
}

func newLogger(logLevel string) *zap.Logger {
	level, err := zapcore.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)

	return zap.New(core)
}

// open session with the server configured by flags and environment
func open(ctx context.Context, logger *zap.Logger) (*mdb.Client, error) {
	opt := []mdb.Option{
		mdb.WithHost(viper.GetString("host")),
		mdb.WithPort(viper.GetInt("port")),
		mdb.WithAppName("docdb"),
		mdb.WithLogger(logger),
	}

	if uri := viper.GetString("uri"); uri != "" {
		opt = append(opt, mdb.WithURI(uri))
	}

	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		opt = append(opt,
			mdb.WithConnectTimeout(timeout),
			mdb.WithTimeout(timeout),
		)
	}

	return mdb.Open(ctx, opt...)
}
