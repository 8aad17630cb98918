package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE agents (
				id VARCHAR(255) PRIMARY KEY,
				owner_id VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				instructions TEXT NOT NULL DEFAULT '',
				model VARCHAR(50) NOT NULL,
				temperature DOUBLE PRECISION NOT NULL CHECK (temperature >= 0 AND temperature <= 1),
				messages_handled INTEGER NOT NULL DEFAULT 0,
				avg_response_time VARCHAR(50) NOT NULL DEFAULT '',
				positive_rating INTEGER NOT NULL DEFAULT 0,
				metadata JSONB,
				is_active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_agents_owner ON agents(owner_id);

			CREATE TABLE automations (
				id VARCHAR(255) PRIMARY KEY,
				owner_id VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				agent_id VARCHAR(255),
				integration_id VARCHAR(255),
				schedule VARCHAR(255) NOT NULL DEFAULT '',
				metadata JSONB,
				is_active BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_automations_owner ON automations(owner_id);
			CREATE INDEX idx_automations_agent ON automations(agent_id);

			CREATE TABLE automation_nodes (
				automation_id VARCHAR(255) NOT NULL REFERENCES automations(id) ON DELETE CASCADE,
				id VARCHAR(255) NOT NULL,
				kind VARCHAR(50) NOT NULL CHECK (kind IN ('trigger', 'action', 'condition', 'output')),
				label VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				position_x DOUBLE PRECISION NOT NULL DEFAULT 0,
				position_y DOUBLE PRECISION NOT NULL DEFAULT 0,
				ordinal INTEGER NOT NULL,
				PRIMARY KEY (automation_id, id)
			);

			CREATE TABLE automation_edges (
				automation_id VARCHAR(255) NOT NULL,
				id VARCHAR(255) NOT NULL,
				source_node_id VARCHAR(255) NOT NULL,
				target_node_id VARCHAR(255) NOT NULL,
				ordinal INTEGER NOT NULL,
				PRIMARY KEY (automation_id, id),
				FOREIGN KEY (automation_id, source_node_id) REFERENCES automation_nodes(automation_id, id) ON DELETE CASCADE,
				FOREIGN KEY (automation_id, target_node_id) REFERENCES automation_nodes(automation_id, id) ON DELETE CASCADE,
				UNIQUE (automation_id, source_node_id, target_node_id),
				CHECK (source_node_id <> target_node_id)
			);

			CREATE TABLE faqs (
				id VARCHAR(255) PRIMARY KEY,
				owner_id VARCHAR(255) NOT NULL,
				question TEXT NOT NULL,
				answer TEXT NOT NULL,
				keywords JSONB NOT NULL DEFAULT '[]',
				agent_id VARCHAR(255),
				category VARCHAR(255) NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_faqs_owner ON faqs(owner_id);
			CREATE INDEX idx_faqs_agent ON faqs(agent_id);

			CREATE TABLE updates (
				id VARCHAR(255) PRIMARY KEY,
				owner_id VARCHAR(255) NOT NULL,
				title VARCHAR(255) NOT NULL,
				content TEXT NOT NULL,
				category VARCHAR(255) NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT true,
				scheduled_at TIMESTAMP WITH TIME ZONE,
				published_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_updates_owner ON updates(owner_id);

			CREATE TABLE integrations (
				id VARCHAR(255) PRIMARY KEY,
				owner_id VARCHAR(255) NOT NULL,
				platform_id VARCHAR(50) NOT NULL,
				platform_name VARCHAR(255) NOT NULL,
				access_token TEXT NOT NULL,
				refresh_token TEXT NOT NULL DEFAULT '',
				token_expiry TIMESTAMP WITH TIME ZONE,
				metadata JSONB,
				is_active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_integrations_owner ON integrations(owner_id);
		`,
		2: `
			-- Publisher scans for due updates
			CREATE INDEX idx_updates_due ON updates(scheduled_at) WHERE published_at IS NULL;
		`,
	}
}
