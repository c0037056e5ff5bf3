package web

import "github.com/mvdan/xurls"

// URLFinder pulls URLs out of free-form frontend input (console lines, chat messages).
type URLFinder struct{}

func NewURLFinder() *URLFinder {
	return &URLFinder{}
}

func (u *URLFinder) FindURLs(str string) []string {
	return xurls.Relaxed.FindAllString(str, -1)
}
