package database

import "strings"

// BuildURL joins a base Postgres URL with a database name and defaults
// sslmode to disable when the URL does not choose one. An empty database name
// returns the base URL untouched, so a fully formed DATABASE_URL can be used
// on its own.
func BuildURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base := strings.TrimRight(baseURL, "/")

	var url string
	if host, query, found := strings.Cut(base, "?"); found {
		url = host + "/" + databaseName + "?" + query
	} else {
		url = base + "/" + databaseName
	}

	if !strings.Contains(url, "sslmode=") {
		if strings.Contains(url, "?") {
			url += "&sslmode=disable"
		} else {
			url += "?sslmode=disable"
		}
	}

	return url
}
