package worker

import (
	"net/url"
)

// DefaultCacheName is the cache version used when none is configured.
const DefaultCacheName = "vitaltrack-v1.0.0"

// DefaultRootPath is the document served to offline navigations.
const DefaultRootPath = "/"

// DefaultManifest lists the resources precached on install.
var DefaultManifest = []string{
	"/",
	"/index.html",
	"/manifest.json",
	"/icon-192.png",
	"/icon-512.png",
	"https://fonts.googleapis.com/css2?family=Inter:wght@300;400;500;600;700&display=swap",
	"https://fonts.gstatic.com/s/inter/v12/UcCO3FwrK3iLTeHuS_fvQtMwCp50KnMw2boKoduKmMEVuLyfAZ9hiJ-Ek-_EeA.woff2",
}

// Config holds everything the worker previously took from its global scope.
type Config struct {
	// CacheName is the version string; bumping it starts a new cache.
	CacheName string
	// Manifest is precached, all or nothing, during Install.
	Manifest []string
	// RootPath is the fallback for document requests when offline.
	RootPath string
	// Origin resolves relative URLs and decides which responses are same-origin.
	Origin *url.URL
	// InstallConcurrency bounds parallel manifest fetches. Zero means 4.
	InstallConcurrency int
}

func (c Config) withDefaults() Config {
	if c.CacheName == "" {
		c.CacheName = DefaultCacheName
	}
	if c.Manifest == nil {
		c.Manifest = append([]string(nil), DefaultManifest...)
	}
	if c.RootPath == "" {
		c.RootPath = DefaultRootPath
	}
	if c.Origin == nil {
		c.Origin = &url.URL{Scheme: "http", Host: "localhost"}
	}
	if c.InstallConcurrency <= 0 {
		c.InstallConcurrency = 4
	}
	return c
}
