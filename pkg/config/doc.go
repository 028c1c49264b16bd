/*
Package config loads the per-project export configuration of zopexport.

	            +-------------+
	            |   Config    |
	            | (projects)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Reads one file holding a config block per project
- Selects the block that applies to a project
- Turns the block into a backend.Config

🔄 Selection order:
1. A block whose project equals the project name
2. The first block whose project is a glob pattern matching the name
3. The "*" block

⚡ Options per block:
- project: name or doublestar pattern
- path: destination template, may contain {meta.X}, {processid}, {processtitle}
- identifier, volume: metadata field names used for the folder name
- sftp: export over sftp instead of to the local filesystem
- username, hostname, port, keyPath, knownHosts: sftp connection

🔍 Example:

	cfg, err := config.Load(ctx, "zopexport.yaml")
	if err != nil {
		return err
	}

	project, err := cfg.Select("Digitised Newspapers")
	if err != nil {
		return err
	}

	if err := project.Validate(); err != nil {
		return err
	}
*/
package config
