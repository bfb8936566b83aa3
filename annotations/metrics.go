// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package annotations

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for signature resolution.
var (
	tracer = otel.Tracer("aleutian.annotations")
	meter  = otel.Meter("aleutian.annotations")
)

// Annotation paths recorded on spans and metrics.
const (
	pathNative  = "native"
	pathComment = "comment"
	pathAbsent  = "absent"
)

// Metrics for signature resolution.
var (
	signatureLatency metric.Float64Histogram
	signatureTotal   metric.Int64Counter
	signatureErrors  metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		signatureLatency, err = meter.Float64Histogram(
			"annotations_signature_duration_seconds",
			metric.WithDescription("Duration of signature resolution"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		signatureTotal, err = meter.Int64Counter(
			"annotations_signature_total",
			metric.WithDescription("Total number of signature resolutions"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		signatureErrors, err = meter.Int64Counter(
			"annotations_signature_errors_total",
			metric.WithDescription("Total number of failed signature resolutions"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordSignatureMetrics records metrics for one resolution attempt.
func recordSignatureMetrics(ctx context.Context, path string, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return // Silently skip if metrics init failed
	}

	attrs := metric.WithAttributes(
		attribute.String("path", path),
		attribute.Bool("success", success),
	)

	signatureLatency.Record(ctx, duration.Seconds(), attrs)
	signatureTotal.Add(ctx, 1, attrs)

	if !success {
		signatureErrors.Add(ctx, 1,
			metric.WithAttributes(attribute.String("path", path)),
		)
	}
}

// startSignatureSpan creates a span for a signature resolution.
func startSignatureSpan(ctx context.Context, function string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Annotations.GetSignature",
		trace.WithAttributes(
			attribute.String("annotations.function", function),
		),
	)
}

// setSignaturePath records which annotation path produced the result.
func setSignaturePath(span trace.Span, path string) {
	span.SetAttributes(attribute.String("annotations.path", path))
}
