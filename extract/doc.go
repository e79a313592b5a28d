// Package extract converts uploaded document bytes into normalized UTF-8
// text. Supported formats form a closed set (PDF, plain text, Markdown);
// anything else is rejected with a typed error instead of being passed to a
// text decoder. Extraction is pure: same bytes in, same text out.
package extract
