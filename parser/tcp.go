package parser

// ParseTCPConnectionCount counts the socket entries of /proc/net/tcp,
// which is every line except the header.
func ParseTCPConnectionCount(text string) int {
	count := len(splitLines(text)) - 1
	if count < 0 {
		return 0
	}
	return count
}
