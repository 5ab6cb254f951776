package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Churn Guard API",
    "description": "Customer churn scoring with a persistent prediction log and dataset analytics",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/healthz": {"get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Database unavailable"}}}},
    "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "Authenticated"}, "401": {"description": "Rejected"}}}},
    "/auth/logout": {"post": {"tags": ["auth"], "summary": "Log out", "responses": {"200": {"description": "OK"}}}},
    "/auth/status": {"get": {"tags": ["auth"], "summary": "Session status", "responses": {"200": {"description": "OK"}}}},
    "/api/model/info": {"get": {"tags": ["model"], "summary": "Model description", "responses": {"200": {"description": "OK"}}}},
    "/api/predict/defaults": {"get": {"tags": ["predict"], "summary": "Form defaults", "responses": {"200": {"description": "OK"}}}},
    "/api/predict": {"post": {"tags": ["predict"], "summary": "Score customers", "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}, "502": {"description": "Scoring endpoint failed"}, "503": {"description": "Scoring not configured"}, "504": {"description": "Scoring timed out"}}}},
    "/api/history": {"get": {"tags": ["history"], "summary": "Prediction history", "responses": {"200": {"description": "OK"}}}},
    "/api/dataset/overview": {"get": {"tags": ["dataset"], "summary": "Dataset overview", "responses": {"200": {"description": "OK"}}}},
    "/api/dataset/eda": {"get": {"tags": ["dataset"], "summary": "Exploratory analysis", "responses": {"200": {"description": "OK"}}}},
    "/api/metrics": {"get": {"tags": ["metrics"], "summary": "Metrics snapshot", "responses": {"200": {"description": "OK"}}}}
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
