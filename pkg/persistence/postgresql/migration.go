package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE workflows (
				id VARCHAR(255) PRIMARY KEY,
				definition JSONB NOT NULL,
				name VARCHAR(255) NOT NULL,
				enabled BOOLEAN NOT NULL DEFAULT true,
				auto_run BOOLEAN NOT NULL DEFAULT false,
				auto_run_order INT NOT NULL DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflows_auto_run ON workflows(auto_run) WHERE auto_run;

			CREATE TABLE workflow_runs (
				id UUID PRIMARY KEY,
				workflow_id VARCHAR(255) NOT NULL,
				record JSONB NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('completed', 'aborted')),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflow_runs_workflow_id ON workflow_runs(workflow_id);
			CREATE INDEX idx_workflow_runs_created_at ON workflow_runs(created_at);

			CREATE TABLE transcripts (
				id UUID PRIMARY KEY,
				title VARCHAR(255),
				text TEXT NOT NULL,
				source VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_transcripts_created_at ON transcripts(created_at);
		`,
	}
}
