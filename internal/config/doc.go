// Package config manages user-level settings stored at ~/.purplefox/config.yaml.
// It registers defaults for every artifact path a pipeline stage reads or
// writes, binds PURPLEFOX_* environment overrides, and accepts the
// SF_INSTANCE_URL and SF_API_VERSION variables the Salesforce tooling uses.
package config
