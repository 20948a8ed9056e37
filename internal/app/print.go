package app

import (
	"encoding/json"
	"fmt"

	"github.com/vk/pipegrid/internal/pipeline"
)

// printResults writes one JSON object per result environment to the output
// writer, in combination order. The reserved pipeline sink and values that
// do not serialize (stage functions, for instance) are elided rather than
// failing the whole run.
func (a *App) printResults(results []pipeline.Environment) error {
	for i, env := range results {
		record := make(map[string]any, len(env))
		for _, sink := range env.Sinks() {
			if sink == pipeline.PipelineSink {
				continue
			}
			v := env[sink]
			if _, err := json.Marshal(v); err != nil {
				a.logger.Debug("Eliding non-serializable result value.", "combination", i, "sink", sink.String())
				continue
			}
			record[sink.String()] = v
		}
		line, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(a.outW, string(line)); err != nil {
			return err
		}
	}
	return nil
}
