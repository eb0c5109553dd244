// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package config provides layered configuration loading for Cinematch.

Configuration is assembled with Koanf v2 from three sources, later sources
overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/cinematch/config.yaml)
 3. Environment variables with explicit name mappings

Example config.yaml:

	server:
	  port: 8501
	database:
	  path: /data/cinematch.duckdb
	corpus:
	  path: /data/ml-32m
	recommend:
	  prediction_budget: 2s
	  similarity_workers: 8
	security:
	  jwt_secret: <32+ random characters>

Common environment variables:

  - HTTP_PORT, HTTP_HOST, ENVIRONMENT
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_CHECKPOINT_INTERVAL
  - CORPUS_PATH
  - RECOMMEND_TRAIN_SEED, RECOMMEND_SAMPLE_SEED, RECOMMEND_PREDICTION_BUDGET
  - MODEL_CACHE_ENABLED, MODEL_CACHE_PATH
  - JWT_SECRET, SESSION_TIMEOUT, CORS_ORIGINS (comma-separated)
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Validate rejects out-of-range values at startup so misconfiguration fails fast.
*/
package config
