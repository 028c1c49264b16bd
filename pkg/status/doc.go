/*
Package status tracks the per-file state of an export transfer.

	            +-------------+
	            |   Tracker   |
	            | (interface) |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  Manager  |           | Console |
	| (zerolog) |           | (lines) |
	+-----------+           +---------+

🎯 Purpose:
- Records what happened to every file (verified, retried, uploaded, rolled back)
- Reports progress as files are processed
- Formats status for logs and for the console

🔄 Flow:
1. The transfer calls StartOperation with the number of source entries
2. Every file is reported once with TrackFile, and again if it is rolled back
3. FinishOperation logs the final progress line

🤝 Interfaces:
- Tracker: receives progress, implemented by Manager and by the CLI progress bar
- FileFormatter: words the log messages

🔍 Example:

	tracker := status.New(os.Stdout)
	transfer := operation.NewTransfer(operation.Options{Backend: b, Tracker: tracker})
	if err := transfer.Run(ctx, src, dst); err != nil {
		return err
	}
	fmt.Println(tracker.Summary())
*/
package status
