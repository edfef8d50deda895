package models

import "time"

type SocialMedia struct {
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	Pinterest string `json:"pinterest"`
	Youtube   string `json:"youtube"`
}

type SiteSettings struct {
	SiteTitle       string      `json:"siteTitle"`
	SiteDescription string      `json:"siteDescription"`
	Logo            string      `json:"logo"`
	Favicon         string      `json:"favicon"`
	PrimaryColor    string      `json:"primaryColor"`
	SecondaryColor  string      `json:"secondaryColor"`
	FooterText      string      `json:"footerText"`
	SocialMedia     SocialMedia `json:"socialMedia"`
	ContactEmail    string      `json:"contactEmail"`
	ContactPhone    string      `json:"contactPhone"`
	Address         string      `json:"address"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

func DefaultSiteSettings() *SiteSettings {
	return &SiteSettings{
		SiteTitle:       "Delicious Bites",
		SiteDescription: "A food blog sharing delicious recipes and cooking tips",
		Logo:            "/uploads/site/logo-default.png",
		Favicon:         "/uploads/site/favicon-default.ico",
		PrimaryColor:    "#ff6b81",
		SecondaryColor:  "#2f3542",
		FooterText:      "© 2023 Delicious Bites. All rights reserved.",
		UpdatedAt:       time.Now().UTC(),
	}
}
