// Package pathutils normalizes directory arguments such as working directories and executable search paths.
package pathutils
