/*
Package operation moves an export onto a backend.

	+-------------+     +-------------+     +-------------+
	|  Provision  | --> |  Transfer   | --> |   Marker    |
	| (EnsureDir) |     | (copy+sum)  |     |  (<dir>.ctl)|
	+-------------+     +-------------+     +-------------+

🎯 Purpose:
- Makes sure the export directory exists
- Copies the regular files of the source directory into it
- Writes the empty completion marker once everything arrived

🔄 Flow:
1. EnsureDir creates the directory when missing
2. Transfer refuses an empty source or a non-empty destination
3. Each file is copied, and on digesting backends compared by SHA-256
4. A mismatch is copied once more; a second mismatch rolls everything back
5. WriteMarker places <base>.ctl next to the export directory

⚡ Errors:
- ErrPrecondition: nothing was written
- ErrIntegrity: the export directory was removed again
- ErrTransfer: files written so far stay in place

🔍 Example:

	t := operation.NewTransfer(operation.Options{Backend: b, Tracker: mgr})
	err := operation.NewRunner().Run(ctx,
		operation.Provision(b, dst),
		operation.Copy(t, src, dst),
		operation.Mark(b, dst),
	)
*/
package operation
