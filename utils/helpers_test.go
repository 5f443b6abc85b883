package utils

import (
	"net/http"
	"net/http/httptest"

	"bus_ticketing/config"
)

func httptestRequest(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}

func configSMTP(host string) config.SMTP {
	return config.SMTP{Host: host, Port: 587}
}
