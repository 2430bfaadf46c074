//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package transport

func isRefused(err error) bool {
	return false
}
