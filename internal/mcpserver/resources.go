package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(s *server.MCPServer) {
	addDoc(s, "docs://usage-guide", "Usage Guide", "How to use the sandwich tools", usageGuide)
	addDoc(s, "docs://theory", "Theoretical Foundation", "The Ham Sandwich Theorem model", theorySummary)
	addDoc(s, "docs://srs", "Requirements Specification", "Software requirements summary", srsSummary)
	addDoc(s, "docs://sds", "Design Specification", "Software design summary", sdsSummary)
}

func addDoc(s *server.MCPServer, uri, name, description, body string) {
	resource := mcp.NewResource(uri, name,
		mcp.WithResourceDescription(description),
		mcp.WithMIMEType("text/markdown"),
	)
	s.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]interface{}, error) {
		return []interface{}{
			mcp.TextResourceContents{
				ResourceContents: mcp.ResourceContents{URI: uri, MIMEType: "text/markdown"},
				Text:             body,
			},
		}, nil
	})
}

const usageGuide = `# sandwich usage guide

## Overview

sandwich scores a source file along three axes derived from the Ham
Sandwich Theorem: a maintainable module only exists balanced between a
security layer (Bread) and a cognitive layer (Cheese).

## The three axes

### 🍞 Bread — structural security
- Trust boundary markers present at sensitive operations
- Auth flow explicitness
- Hardcoded secret detection
- Hidden I/O dependencies (env, filesystem, network)

### 🧀 Cheese — cognitive accessibility
- Nesting depth (framework-weighted for presentational code)
- Concepts per function (Miller's Law, ≤9)
- state×async×retry: no two of the three coexisting
- Hidden dependencies

### 🥓 Ham — behavioral preservation
- Critical-path detection (payment, auth, destructive-data, security, API, database)
- Golden-test coverage of those critical paths

## Tool map

| Scenario                         | Tool               |
|-----------------------------------|---------------------|
| Full quality analysis             | analyze_sandwich    |
| Cognitive accessibility only      | analyze_cheese      |
| PR gate (PoC/MVP/Production)      | check_gate          |
| Refactoring direction             | suggest_refactor    |
| Before/after degradation          | check_degradation   |
| Change budget check               | check_budget        |
| Axis label                        | get_label           |

## Gate stages

- PoC: loose thresholds, no waivers
- MVP: tighter thresholds, no waivers
- Production: strictest thresholds, waivers honored via .waiver.json

See also: docs://theory, docs://srs, docs://sds
`

const theorySummary = `# Theoretical foundation

## Core claim

A module's maintainability (Ham) only has meaning measured against its
security posture (Bread) and its cognitive load (Cheese). Maximizing any
one axis at the expense of the others degrades the whole.

## Axes

| Axis   | Role                   | What it measures                         |
|--------|------------------------|-------------------------------------------|
| Bread  | structural stability   | trust boundaries, auth, secret hygiene    |
| Cheese | context density        | how much a reader must hold in their head |
| Ham    | behavior preservation  | golden/critical-path test coverage        |

## Accessibility conditions (all must hold)

1. Nesting depth ≤ configured threshold
2. Concepts per function ≤ 9 (Miller's Law, 7±2)
3. Hidden dependencies minimized
4. state×async×retry: no two of the three coexist in one file

## Equilibrium

The canonical simplex point is the archetype's expected (bread, cheese,
ham) mix. Deviation is the signed difference per axis; a point is in
equilibrium when every axis is within tolerance of canonical.
`

const srsSummary = `# Requirements summary

## System

sandwich is a multi-axis static complexity analyzer. It classifies a
file's archetype from its path, computes raw bread/cheese/ham scores,
normalizes them onto the 2-simplex, and compares the result against the
archetype's canonical profile.

## Archetypes and canonical profiles

| Archetype     | Bread | Cheese | Ham  |
|---------------|-------|--------|------|
| deploy        | 0.70  | 0.10   | 0.20 |
| api-external  | 0.50  | 0.20   | 0.30 |
| api-internal  | 0.30  | 0.30   | 0.40 |
| app           | 0.20  | 0.50   | 0.30 |
| lib-domain    | 0.10  | 0.30   | 0.60 |
| lib-infra     | 0.20  | 0.30   | 0.50 |

## Gate stages

| Stage      | Strictness | Waiver support |
|------------|------------|----------------|
| PoC        | loose      | no             |
| MVP        | standard   | no             |
| Production | strict     | yes            |
`

const sdsSummary = `# Design summary

## Pipeline

classify(path) -> archetype
parse(source, path) -> language-agnostic tree
{bread,cheese,ham}.Analyze(tree, ...) -> raw reports
simplex.Normalize(raw) -> point on the 2-simplex
simplex.ComputeDeviation(point, canonical) -> signed per-axis delta
recommend.SuggestRefactor(point, canonical, equilibrium, sar) -> actions
gate.CheckGate(stage, reports, archetype) -> pass/fail + violations

## Normalization

bread + cheese + ham = 1, falling back to (1/3, 1/3, 1/3) when the raw
triple sums to zero.

## Gradient recommender

Deviations are sorted by magnitude; the top K axes each contribute one
fixed action from a (axis, direction) table, with impact = 100 * |delta|.
`
