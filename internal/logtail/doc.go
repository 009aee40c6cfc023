// Package logtail reads the end of the flipbook log file for the diagnostics
// overlay.
//
// Tail seeks to the end of the file and reads backwards in fixed chunks
// until it has seen enough line breaks, so the cost of a refresh depends on
// the number of lines shown rather than on the size of the log. A missing
// file is not an error; the overlay simply shows nothing until the logger
// has written something.
//
// Every line is split by Parse into the columns the console encoder
// configured in internal/config writes: time, level, message and fields.
// Lines from other writers (or continuation lines of a stack trace) keep
// only Raw, and the overlay prints them unstyled.
//
//	entries, err := logtail.Tail(cfg.Logging.File, 200)
//	if err != nil {
//		return err
//	}
//	for _, e := range entries {
//		fmt.Println(e.Level, e.Message)
//	}
package logtail
