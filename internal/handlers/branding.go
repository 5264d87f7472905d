package handlers

import (
	"github.com/gofiber/fiber/v3"

	"rankcheck/internal/config"
)

// BrandingData contains site branding information for templates.
type BrandingData struct {
	SiteTitle    string
	SiteTagline  string
	SiteFooter   string
	SiteGreeting string
}

// GetBrandingData returns branding data from config for template rendering.
func GetBrandingData(cfg *config.Config) BrandingData {
	return BrandingData{
		SiteTitle:    cfg.SiteTitle,
		SiteTagline:  cfg.SiteTagline,
		SiteFooter:   cfg.SiteFooter,
		SiteGreeting: cfg.SiteGreeting,
	}
}

// MergeBranding adds branding data to a fiber.Map for template rendering.
func MergeBranding(data fiber.Map, cfg *config.Config) fiber.Map {
	branding := GetBrandingData(cfg)
	data["SiteTitle"] = branding.SiteTitle
	data["SiteTagline"] = branding.SiteTagline
	data["SiteFooter"] = branding.SiteFooter
	data["SiteGreeting"] = branding.SiteGreeting
	return data
}
