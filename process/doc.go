// Package process runs external tools such as ffmpeg as subprocesses.
// Cancellation signals the whole process group so child processes do not
// outlive the request that started them.
package process
