package main

func (cli *commandLine) syncPayments() error {
	approvals, newCount, err := cli.paySvc.SyncApprovals()
	if err != nil {
		return err
	}
	logger.Printf("synced %d new enrollment(s); %d approval(s) in the working set\n", newCount, len(approvals))
	return nil
}

func (cli *commandLine) syncReviews() error {
	reviews, newCount, err := cli.revSvc.Sync()
	if err != nil {
		return err
	}
	logger.Printf("synced %d new review(s); %d review(s) awaiting moderation\n", newCount, len(reviews))
	return nil
}
