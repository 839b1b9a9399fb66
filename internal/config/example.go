package config

import (
	"os"
	"strings"

	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// ExampleYAML is the configuration written by `sitegen init`.
const ExampleYAML = `# sitegen configuration
site:
  name: YourName.dev
  url: https://yourname.dev
  owner: Your Name

paths:
  content: content      # content/posts and content/pages
  templates: template
  output: public        # emptied on every build

templates:
  post: main.html
  page: main.html
  listing: blog-index.html
  home: home.html
  pages:
    projects: projects.html
    about: about.html
    contact: contact.html

listing:
  title: Blog
  description: My thoughts and writings

home:
  title: Home
  description: Freelance Developer Portfolio

build:
  verify_links: true
  external_prefixes: ["assets/"]
  # history_db: .sitegen/history.db

watch:
  debounce: 300ms
  requeue_delay: 100ms
  # schedule: "0 * * * *"

serve:
  port: 8080
  live_reload: true
  metrics: true

notify:
  # nats_url: ${NATS_URL}
  subject: sitegen.build.completed
`

// WriteExample writes ExampleYAML to path. An existing file is only replaced
// when force is set.
func WriteExample(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError("configuration file already exists").
			WithContext("file", path).
			Build()
	}
	if err := atomic.WriteFile(path, strings.NewReader(ExampleYAML)); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration file").
			Fatal().
			WithContext("file", path).
			Build()
	}
	return nil
}
