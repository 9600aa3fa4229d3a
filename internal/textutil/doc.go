// Package textutil sanitizes participant-supplied text for use in file names.
package textutil
