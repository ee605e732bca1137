package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"predictd/internal/config"
	"predictd/internal/features"
	"predictd/internal/predictor"
	"predictd/pkg/types"
)

// runEncode reads one prediction request and writes its feature vector as a
// JSON array. The model is not loaded.
func runEncode(cfg config.Config, inputPath string, stdin io.Reader, out io.Writer) error {
	enc, err := features.NewEncoder(cfg.Features.Fields, cfg.Features.Categories)
	if err != nil {
		return fmt.Errorf("features: %w", err)
	}
	if err := predictor.CheckSchema(enc.Schema()); err != nil {
		return err
	}
	in := stdin
	if inputPath != "" && inputPath != "-" {
		fh, err := os.Open(inputPath)
		if err != nil {
			return err
		}
		defer fh.Close()
		in = fh
	}
	var req types.PredictionRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	vec, err := enc.Encode(features.FromRecord(req))
	if err != nil {
		return err
	}
	return json.NewEncoder(out).Encode(vec)
}
