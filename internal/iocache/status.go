package iocache

import (
	"fmt"

	"github.com/huangsam/reelstats/schema"
)

// statusTimeFormat is the layout for timestamps in status output.
const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Last Entry: %s\n", status.LastEntryTime.Format(statusTimeFormat))
		fmt.Printf("Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeFormat))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintUploadStatus prints upload store status information.
func PrintUploadStatus(status schema.UploadStatus) {
	fmt.Printf("Upload Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Session: %s\n", status.SessionID)
	fmt.Printf("Session Files: %d\n", status.SessionFiles)
	for _, ft := range append(schema.KnownFileTypes, schema.UnknownFile) {
		if n := status.FilesByType[ft]; n > 0 {
			fmt.Printf("  %s: %d\n", ft, n)
		}
	}
	fmt.Printf("Total Files: %d\n", status.TotalFiles)
	if status.TotalFiles > 0 {
		fmt.Printf("Last Upload: %s\n", status.LastUploadTime.Format(statusTimeFormat))
	}
	fmt.Printf("Total Size: %d bytes\n", status.TotalBytes)
}
