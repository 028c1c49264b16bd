/*
Package export plans and runs the export of one item.

	+-----------+     +-----------+     +-------------+
	|  Request  | --> |   Plan    | --> |  Job.Run    |
	| (caller)  |     | (no I/O)  |     | (backend)   |
	+-----------+     +-----------+     +------+------+
	                                           |
	                                    +------+------+
	                                    |   Outcome   |
	                                    +-------------+

🎯 Purpose:
- Selects the config block of the project
- Substitutes the path template and resolves the folder name
- Opens the backend, runs the operation stages and closes the backend
- Turns every failure into one problem line and an abort line

⚡ Errors:
Every error returned by Plan or Job.Run matches exactly one of
ErrConfiguration, ErrMetadata, ErrConnection, ErrPrecondition, ErrIntegrity
or ErrTransfer with errors.Is. Kind returns it.

🔍 Example:

	exp := export.NewExporter(export.Options{Reporter: logger, JournalDir: dir})
	out := exp.Export(ctx, export.Request{
		ProjectName: "Newspapers",
		Config:      cfg,
		Logical:     doc.Logical,
		SourceDir:   "/goobi/17/images/master",
		ProcessID:   17,
	})
*/
package export
