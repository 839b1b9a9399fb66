package config

import "time"

const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultRequeueDelay = 100 * time.Millisecond
	DefaultPort         = 8080
	DefaultSubject      = "sitegen.build.completed"
	DefaultEmptyMessage = `<div class="text-center py-16"><p class="text-gray-600 dark:text-gray-400 text-lg">No blog posts yet. Check back soon!</p></div>`
)

func defaultPageTemplates() map[string]string {
	return map[string]string{
		"projects": "projects.html",
		"about":    "about.html",
		"contact":  "contact.html",
	}
}

func setDefault(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func applyDefaults(cfg *Config) {
	setDefault(&cfg.Site.Name, "YourName.dev")
	setDefault(&cfg.Site.URL, "https://yourname.dev")
	setDefault(&cfg.Site.Owner, "Your Name")

	setDefault(&cfg.Paths.Content, "content")
	setDefault(&cfg.Paths.Templates, "template")
	setDefault(&cfg.Paths.Output, "public")

	setDefault(&cfg.Templates.Post, "main.html")
	setDefault(&cfg.Templates.Page, "main.html")
	setDefault(&cfg.Templates.Listing, "blog-index.html")
	setDefault(&cfg.Templates.Home, "home.html")
	if cfg.Templates.Pages == nil {
		cfg.Templates.Pages = defaultPageTemplates()
	}

	setDefault(&cfg.Listing.Title, "Blog")
	setDefault(&cfg.Listing.Description, "My thoughts and writings")
	setDefault(&cfg.Listing.EmptyMessage, DefaultEmptyMessage)

	setDefault(&cfg.Home.Title, "Home")
	setDefault(&cfg.Home.Description, "Freelance Developer Portfolio")

	if cfg.Build.ExternalPrefixes == nil {
		cfg.Build.ExternalPrefixes = []string{"assets/"}
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
	if cfg.Watch.RequeueDelay == 0 {
		cfg.Watch.RequeueDelay = DefaultRequeueDelay
	}

	if cfg.Serve.Port == 0 {
		cfg.Serve.Port = DefaultPort
	}

	setDefault(&cfg.Notify.Subject, DefaultSubject)
}
